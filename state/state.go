// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/rewardpool/stackedmap"
	"github.com/vechain/rewardpool/thor"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

type (
	balanceKey thor.Address
	nonceKey   thor.Address
	storageKey struct {
		addr thor.Address
		key  thor.Bytes32
	}
)

// State manages the world state: per-address balance and storage slots.
// Changes are journaled and only reach the underlying store on Commit.
type State struct {
	stater *Stater
	sm     *stackedmap.StackedMap[any, any]
}

func newState(stater *Stater) *State {
	s := &State{stater: stater}
	s.sm = stackedmap.New(s.load)
	// the base level keeps changes which survive any checkpoint revert
	s.sm.Push()
	return s
}

// load implements stackedmap.MapGetter, reading committed values.
func (s *State) load(key any) (any, bool, error) {
	switch k := key.(type) {
	case balanceKey:
		acc, err := s.stater.loadAccount(thor.Address(k))
		if err != nil {
			return nil, false, err
		}
		return acc.Balance, true, nil
	case nonceKey:
		nonce, err := s.stater.loadNonce(thor.Address(k))
		if err != nil {
			return nil, false, err
		}
		return nonce, true, nil
	case storageKey:
		raw, err := s.stater.loadStorage(k.addr, k.key)
		if err != nil {
			return nil, false, err
		}
		return raw, true, nil
	}
	panic(fmt.Errorf("unexpected key type %+v", key))
}

// GetBalance returns balance for the given address.
func (s *State) GetBalance(addr thor.Address) (*big.Int, error) {
	v, _, err := s.sm.Get(balanceKey(addr))
	if err != nil {
		return nil, &Error{err}
	}
	return new(big.Int).Set(v.(*big.Int)), nil
}

// SetBalance set balance for the given address.
func (s *State) SetBalance(addr thor.Address, balance *big.Int) error {
	if balance.Sign() < 0 {
		return &Error{fmt.Errorf("negative balance %v for %v", balance, addr)}
	}
	s.sm.Put(balanceKey(addr), new(big.Int).Set(balance))
	return nil
}

// AddBalance increases balance of the given address.
func (s *State) AddBalance(addr thor.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	bal, err := s.GetBalance(addr)
	if err != nil {
		return err
	}
	return s.SetBalance(addr, bal.Add(bal, amount))
}

// SubBalance decreases balance of the given address.
// It returns false if the balance is insufficient, and nothing is changed.
func (s *State) SubBalance(addr thor.Address, amount *big.Int) (bool, error) {
	if amount.Sign() == 0 {
		return true, nil
	}
	bal, err := s.GetBalance(addr)
	if err != nil {
		return false, err
	}
	if bal.Cmp(amount) < 0 {
		return false, nil
	}
	return true, s.SetBalance(addr, bal.Sub(bal, amount))
}

// Transfer moves amount from one address to another.
// It returns false if the sender's balance is insufficient.
func (s *State) Transfer(from, to thor.Address, amount *big.Int) (bool, error) {
	ok, err := s.SubBalance(from, amount)
	if err != nil || !ok {
		return ok, err
	}
	return true, s.AddBalance(to, amount)
}

// GetNonce returns the count of signed clauses executed on behalf of addr.
func (s *State) GetNonce(addr thor.Address) (uint64, error) {
	v, _, err := s.sm.Get(nonceKey(addr))
	if err != nil {
		return 0, &Error{err}
	}
	return v.(uint64), nil
}

// SetNonce set nonce for the given address.
func (s *State) SetNonce(addr thor.Address, nonce uint64) {
	s.sm.Put(nonceKey(addr), nonce)
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr thor.Address, key thor.Bytes32) (thor.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return thor.Bytes32{}, err
	}
	if len(raw) == 0 {
		return thor.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return thor.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// customized storage value, return hash of raw data
		return thor.Blake2b(raw), nil
	}
	return thor.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr thor.Address, key, value thor.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, v)
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr thor.Address, key thor.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data.(rlp.RawValue), nil
}

// SetRawStorage set storage value in rlp raw. An empty value deletes the slot.
func (s *State) SetRawStorage(addr thor.Address, key thor.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by enc will be absorbed by State instance.
func (s *State) EncodeStorage(addr thor.Address, key thor.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr thor.Address, key thor.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	if revision < 1 {
		revision = 1
	}
	s.sm.PopTo(revision)
}

// Commit writes all journaled changes into the underlying store in one batch,
// then resets the journal so the state continues on top of the committed values.
func (s *State) Commit() error {
	var (
		balances = make(map[thor.Address]*big.Int)
		nonces   = make(map[thor.Address]uint64)
		storages = make(map[storageKey]rlp.RawValue)
	)
	s.sm.Journal(func(k, v any) bool {
		switch key := k.(type) {
		case balanceKey:
			balances[thor.Address(key)] = v.(*big.Int)
		case nonceKey:
			nonces[thor.Address(key)] = v.(uint64)
		case storageKey:
			storages[key] = v.(rlp.RawValue)
		}
		return true
	})
	if len(balances) == 0 && len(nonces) == 0 && len(storages) == 0 {
		return nil
	}
	if err := s.stater.commit(balances, nonces, storages); err != nil {
		return &Error{err}
	}
	metricStateCommits().Add(1)
	metricStateChanges().AddWithLabel(int64(len(balances)), map[string]string{"type": "balance"})
	metricStateChanges().AddWithLabel(int64(len(nonces)), map[string]string{"type": "nonce"})
	metricStateChanges().AddWithLabel(int64(len(storages)), map[string]string{"type": "storage"})

	s.sm.PopTo(0)
	s.sm.Push()
	return nil
}

// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/kv"
	"github.com/vechain/rewardpool/thor"
)

const (
	accountBucket = kv.Bucket("a")
	nonceBucket   = kv.Bucket("n")
	storageBucket = kv.Bucket("s")

	defaultCacheSize = 4096
)

// Stater is the state creator. All states created by one stater share
// the same committed store and the cache of committed values.
type Stater struct {
	store kv.Store
	cache *lru.Cache
}

// NewStater create a new stater. cacheSize is the count of committed entries kept in memory.
func NewStater(store kv.Store, cacheSize int) *Stater {
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	cache, _ := lru.New(cacheSize)
	return &Stater{store, cache}
}

// NewState create a new state object on top of the committed values.
func (s *Stater) NewState() *State {
	return newState(s)
}

func storageDBKey(addr thor.Address, key thor.Bytes32) []byte {
	return append(append(make([]byte, 0, len(addr)+len(key)), addr[:]...), key[:]...)
}

func (s *Stater) get(bucket kv.Bucket, key []byte) ([]byte, error) {
	full := bucket.Key(key)
	if v, ok := s.cache.Get(string(full)); ok {
		metricCacheHits().AddWithLabel(1, map[string]string{"result": "hit"})
		return v.([]byte), nil
	}
	metricCacheHits().AddWithLabel(1, map[string]string{"result": "miss"})

	data, err := s.store.Get(full)
	if err != nil {
		if !s.store.IsNotFound(err) {
			return nil, err
		}
		data = nil
	}
	s.cache.Add(string(full), data)
	return data, nil
}

func (s *Stater) loadAccount(addr thor.Address) (*Account, error) {
	data, err := s.get(accountBucket, addr[:])
	if err != nil {
		return nil, errors.Wrap(err, "load account")
	}
	acc, err := decodeAccount(data)
	if err != nil {
		return nil, errors.Wrap(err, "decode account")
	}
	return acc, nil
}

func (s *Stater) loadNonce(addr thor.Address) (uint64, error) {
	data, err := s.get(nonceBucket, addr[:])
	if err != nil {
		return 0, errors.Wrap(err, "load nonce")
	}
	if len(data) == 0 {
		return 0, nil
	}
	var nonce uint64
	if err := rlp.DecodeBytes(data, &nonce); err != nil {
		return 0, errors.Wrap(err, "decode nonce")
	}
	return nonce, nil
}

func (s *Stater) loadStorage(addr thor.Address, key thor.Bytes32) (rlp.RawValue, error) {
	data, err := s.get(storageBucket, storageDBKey(addr, key))
	if err != nil {
		return nil, errors.Wrap(err, "load storage")
	}
	return data, nil
}

func (s *Stater) commit(balances map[thor.Address]*big.Int, nonces map[thor.Address]uint64, storages map[storageKey]rlp.RawValue) error {
	var (
		batch   = s.store.NewBatch()
		written = make(map[string][]byte, len(balances)+len(nonces)+len(storages))
	)
	put := func(full, val []byte) error {
		written[string(full)] = val
		if len(val) == 0 {
			return batch.Delete(full)
		}
		return batch.Put(full, val)
	}

	for addr, bal := range balances {
		data, err := encodeAccount(&Account{Balance: bal})
		if err != nil {
			return errors.Wrap(err, "encode account")
		}
		if err := put(accountBucket.Key(addr[:]), data); err != nil {
			return err
		}
	}
	for addr, nonce := range nonces {
		var data []byte
		if nonce > 0 {
			var err error
			if data, err = rlp.EncodeToBytes(nonce); err != nil {
				return errors.Wrap(err, "encode nonce")
			}
		}
		if err := put(nonceBucket.Key(addr[:]), data); err != nil {
			return err
		}
	}
	for key, raw := range storages {
		if err := put(storageBucket.Key(storageDBKey(key.addr, key.key)), raw); err != nil {
			return err
		}
	}
	if err := batch.Write(); err != nil {
		return errors.Wrap(err, "write batch")
	}
	for k, v := range written {
		s.cache.Add(k, v)
	}
	return nil
}

// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"context"

	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/kv"
	"github.com/vechain/rewardpool/lvldb"
	"github.com/vechain/rewardpool/runtime"
	"github.com/vechain/rewardpool/state"
	"github.com/vechain/rewardpool/thor"
	"github.com/vechain/rewardpool/tx"
)

// Builder helper to build the genesis state.
type Builder struct {
	timestamp uint64

	stateProcs []func(state *state.State) error
	calls      []call
}

type call struct {
	clause *tx.Clause
	caller thor.Address
}

// Timestamp set the time genesis calls are executed at.
func (b *Builder) Timestamp(t uint64) *Builder {
	b.timestamp = t
	return b
}

// State add a state process
func (b *Builder) State(proc func(state *state.State) error) *Builder {
	b.stateProcs = append(b.stateProcs, proc)
	return b
}

// Call add a contract call, executed after all state processes.
func (b *Builder) Call(clause *tx.Clause, caller thor.Address) *Builder {
	b.calls = append(b.calls, call{clause, caller})
	return b
}

// ComputeID builds the genesis into an empty store and hashes every resulting entry.
func (b *Builder) ComputeID() (thor.Bytes32, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return thor.Bytes32{}, err
	}
	defer db.Close()

	if err := b.Build(state.NewStater(db, 0)); err != nil {
		return thor.Bytes32{}, err
	}
	return hashStore(db)
}

// Build applies state processes and calls to the committed state of stater.
func (b *Builder) Build(stater *state.Stater) error {
	st := stater.NewState()
	for _, proc := range b.stateProcs {
		if err := proc(st); err != nil {
			return errors.Wrap(err, "state process")
		}
	}
	if err := st.Commit(); err != nil {
		return errors.Wrap(err, "commit state")
	}

	rt := runtime.New(stater, nil)
	for i, call := range b.calls {
		receipt, err := rt.ExecuteClause(context.Background(), call.caller, call.clause, b.timestamp)
		if err != nil {
			return errors.Wrapf(err, "call %d", i)
		}
		if receipt.Reverted {
			return errors.Errorf("call %d reverted: %s", i, receipt.RevertReason)
		}
	}
	return nil
}

func hashStore(store kv.Store) (id thor.Bytes32, err error) {
	it := store.NewIterator(kv.Range{})
	defer it.Release()

	hasher := thor.NewBlake2b()
	for it.Next() {
		hasher.Write(it.Key())
		hasher.Write(it.Value())
	}
	if err := it.Error(); err != nil {
		return thor.Bytes32{}, err
	}
	hasher.Sum(id[:0])
	return id, nil
}

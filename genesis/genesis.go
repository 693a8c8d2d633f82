// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/builtin"
	"github.com/vechain/rewardpool/state"
	"github.com/vechain/rewardpool/thor"
	"github.com/vechain/rewardpool/tx"
)

// genesisKey is where the id of the genesis a database was built from is kept.
var genesisKey = thor.Blake2b([]byte("genesis-id"))

// Genesis to build the initial state of a pool.
type Genesis struct {
	builder *Builder
	id      thor.Bytes32
	name    string
}

// NewCustomNet creates the genesis described by gen.
func NewCustomNet(gen *CustomGenesis) (*Genesis, error) {
	if err := gen.Validate(); err != nil {
		return nil, err
	}

	builder := new(Builder).
		Timestamp(gen.LaunchTime).
		State(func(st *state.State) error {
			for _, acc := range gen.Accounts {
				if err := st.SetBalance(acc.Address, acc.Balance.Int()); err != nil {
					return err
				}
			}
			return builtin.Pool.Native(st).Create(gen.Name, gen.Operator)
		})

	for _, dep := range gen.Deposits {
		builder.Call(
			tx.NewClause(builtin.Pool.Address).
				WithValue(dep.Amount.Int()).
				WithData(mustEncodeInput("deposit")),
			dep.Holder)
	}

	id, err := builder.ComputeID()
	if err != nil {
		return nil, errors.Wrap(err, "compute genesis id")
	}
	return &Genesis{builder, id, gen.Name}, nil
}

// Build initializes the committed state of stater. A state already built from
// this genesis is left untouched, one built from another genesis is an error.
func (g *Genesis) Build(stater *state.Stater) error {
	stored, err := stater.NewState().GetStorage(builtin.Pool.Address, genesisKey)
	if err != nil {
		return err
	}
	if !stored.IsZero() {
		if stored != g.id {
			return errors.Errorf("genesis mismatch: database has %v, want %v", stored, g.id)
		}
		return nil
	}

	if err := g.builder.Build(stater); err != nil {
		return err
	}

	st := stater.NewState()
	st.SetStorage(builtin.Pool.Address, genesisKey, g.id)
	return st.Commit()
}

// ID returns genesis id.
func (g *Genesis) ID() thor.Bytes32 {
	return g.id
}

// Name returns the name of the pool.
func (g *Genesis) Name() string {
	return g.name
}

func mustEncodeInput(name string, args ...any) []byte {
	method, found := builtin.Pool.ABI.MethodByName(name)
	if !found {
		panic("method not found")
	}
	data, err := method.EncodeInput(args...)
	if err != nil {
		panic(err)
	}
	return data
}

// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package testpool

import (
	"context"
	"fmt"
	"math/big"

	"github.com/vechain/rewardpool/abi"
	"github.com/vechain/rewardpool/builtin"
	"github.com/vechain/rewardpool/genesis"
	"github.com/vechain/rewardpool/logdb"
	"github.com/vechain/rewardpool/lvldb"
	"github.com/vechain/rewardpool/runtime"
	"github.com/vechain/rewardpool/state"
	"github.com/vechain/rewardpool/thor"
	"github.com/vechain/rewardpool/tx"
)

// Pool is a dev pool backed by in-memory stores, for tests.
type Pool struct {
	db       *lvldb.LevelDB
	genesis  *genesis.Genesis
	stater   *state.Stater
	logDB    *logdb.LogDB
	rt       *runtime.Runtime
	accounts []genesis.DevAccount
	signing  *tx.Signing
	now      uint64
}

// NewDefault launches the dev pool. The clock starts at the genesis launch time.
func NewDefault() (*Pool, error) {
	return NewWithGenesis(genesis.DevConfig())
}

// NewWithGenesis launches a pool from a custom genesis.
func NewWithGenesis(gen *genesis.CustomGenesis) (*Pool, error) {
	gene, err := genesis.NewCustomNet(gen)
	if err != nil {
		return nil, err
	}
	db, err := lvldb.NewMem()
	if err != nil {
		return nil, err
	}
	stater := state.NewStater(db, 0)
	if err := gene.Build(stater); err != nil {
		db.Close()
		return nil, err
	}
	logDB, err := logdb.NewMem()
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Pool{
		db:       db,
		genesis:  gene,
		stater:   stater,
		logDB:    logDB,
		rt:       runtime.New(stater, logDB),
		accounts: genesis.DevAccounts(),
		signing:  tx.NewSigning(gene.ID()),
		now:      gen.LaunchTime,
	}, nil
}

// Close releases the stores.
func (p *Pool) Close() error {
	if err := p.logDB.Close(); err != nil {
		return err
	}
	return p.db.Close()
}

func (p *Pool) Genesis() *genesis.Genesis { return p.genesis }

func (p *Pool) Stater() *state.Stater { return p.stater }

func (p *Pool) LogDB() *logdb.LogDB { return p.logDB }

func (p *Pool) Runtime() *runtime.Runtime { return p.rt }

// Accounts returns the dev accounts, the first one is the operator.
func (p *Pool) Accounts() []genesis.DevAccount { return p.accounts }

// Signing signs clauses for this pool.
func (p *Pool) Signing() *tx.Signing { return p.signing }

// Nonce returns the next nonce of addr.
func (p *Pool) Nonce(addr thor.Address) (uint64, error) {
	return p.stater.NewState().GetNonce(addr)
}

// Now returns the pool clock.
func (p *Pool) Now() uint64 { return p.now }

// Clock reads the pool clock, it fits the api constructors.
func (p *Pool) Clock() uint64 { return p.now }

// Advance moves the clock forward.
func (p *Pool) Advance(seconds uint64) {
	p.now += seconds
}

// Execute runs a pool method as origin at the current clock. A reverted
// clause is reported as an error.
func (p *Pool) Execute(origin thor.Address, value *big.Int, method string, args ...any) (*tx.Receipt, error) {
	clause, err := Clause(value, method, args...)
	if err != nil {
		return nil, err
	}
	receipt, err := p.rt.ExecuteClause(context.Background(), origin, clause, p.now)
	if err != nil {
		return nil, err
	}
	if receipt.Reverted {
		return receipt, fmt.Errorf("%s reverted: %s", method, receipt.RevertReason)
	}
	return receipt, nil
}

// Balance returns the committed balance of addr.
func (p *Pool) Balance(addr thor.Address) (*big.Int, error) {
	return p.stater.NewState().GetBalance(addr)
}

// Clause builds a clause calling a pool method.
func Clause(value *big.Int, method string, args ...any) (*tx.Clause, error) {
	m, err := Method(method)
	if err != nil {
		return nil, err
	}
	data, err := m.EncodeInput(args...)
	if err != nil {
		return nil, err
	}
	clause := tx.NewClause(builtin.Pool.Address).WithData(data)
	if value != nil {
		clause = clause.WithValue(value)
	}
	return clause, nil
}

// Method looks up a pool method by name.
func Method(name string) (*abi.Method, error) {
	m, ok := builtin.Pool.ABI.MethodByName(name)
	if !ok {
		return nil, fmt.Errorf("pool method %q not found", name)
	}
	return m, nil
}

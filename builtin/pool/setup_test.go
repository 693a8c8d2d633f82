// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"fmt"
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/rewardpool/lvldb"
	"github.com/vechain/rewardpool/state"
	"github.com/vechain/rewardpool/thor"
)

var (
	poolAddr = thor.BytesToAddress([]byte("pool"))
	team     = thor.BytesToAddress([]byte("team"))
	userA    = thor.BytesToAddress([]byte("userA"))
	userB    = thor.BytesToAddress([]byte("userB"))
	outsider = thor.BytesToAddress([]byte("outsider"))
)

const day = uint64(24 * 60 * 60)

// units returns n ten-thousandths of a value unit (1e18).
func units(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e14))
}

func newTestPool(t *testing.T) (*Pool, *state.State) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.NewStater(db, 0).NewState()
	p := New(poolAddr, st)
	require.NoError(t, p.Create("ETHPool", team))
	return p, st
}

func assertBig(t *testing.T, expected, actual *big.Int, msg string, args ...any) {
	t.Helper()
	desc := fmt.Sprintf(msg, args...)
	require.NotNil(t, actual, desc)
	assert.Zero(t, expected.Cmp(actual), "%s: expected %v, got %v", desc, expected, actual)
}

type TestFunc func(t *testing.T)

type TestSequence struct {
	pool *Pool

	funcs []TestFunc
	mu    sync.Mutex
}

func NewSequence(pool *Pool) *TestSequence {
	return &TestSequence{funcs: make([]TestFunc, 0), pool: pool}
}

func (ts *TestSequence) AddFunc(f TestFunc) *TestSequence {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	ts.funcs = append(ts.funcs, f)
	return ts
}

func (ts *TestSequence) Deposit(holder thor.Address, amount *big.Int) *TestSequence {
	return ts.AddFunc(func(t *testing.T) {
		if err := ts.pool.Deposit(holder, amount); err != nil {
			t.Fatalf("failed to deposit %v for %s: %v", amount, holder, err)
		}
		t.Logf("deposited %v for %s", amount, holder)
	})
}

func (ts *TestSequence) InjectReward(caller thor.Address, amount *big.Int, now uint64) *TestSequence {
	return ts.AddFunc(func(t *testing.T) {
		if err := ts.pool.InjectReward(caller, amount, now); err != nil {
			t.Fatalf("failed to inject reward %v at %d: %v", amount, now, err)
		}
		t.Logf("injected reward %v at %d", amount, now)
	})
}

func (ts *TestSequence) InjectRewardFails(caller thor.Address, amount *big.Int, now uint64, expected error) *TestSequence {
	return ts.AddFunc(func(t *testing.T) {
		err := ts.pool.InjectReward(caller, amount, now)
		assert.ErrorIs(t, err, expected, "inject reward %v by %s at %d", amount, caller, now)
	})
}

func (ts *TestSequence) Withdraw(holder thor.Address, expected *big.Int) *TestSequence {
	return ts.AddFunc(func(t *testing.T) {
		payout, err := ts.pool.Withdraw(holder)
		if err != nil {
			t.Fatalf("failed to withdraw for %s: %v", holder, err)
		}
		assertBig(t, expected, payout, "payout of %s", holder)
		t.Logf("withdrawn %v for %s", payout, holder)
	})
}

func (ts *TestSequence) WithdrawFails(holder thor.Address, expected error) *TestSequence {
	return ts.AddFunc(func(t *testing.T) {
		_, err := ts.pool.Withdraw(holder)
		assert.ErrorIs(t, err, expected, "withdraw for %s", holder)
	})
}

func (ts *TestSequence) TotalHolderDeposit(expected *big.Int) *TestSequence {
	return ts.AddFunc(func(t *testing.T) {
		total, err := ts.pool.TotalHolderDeposit()
		require.NoError(t, err)
		assertBig(t, expected, total, "total holder deposit")
	})
}

func (ts *TestSequence) Assert(assertions *HolderAssertions) *TestSequence {
	return ts.AddFunc(assertions.Assert)
}

func (ts *TestSequence) Run(t *testing.T) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	for _, f := range ts.funcs {
		f(t)
	}
}

type HolderAssertions struct {
	pool *Pool
	addr thor.Address

	balance   *big.Int
	pending   *big.Int
	principal *big.Int
	absent    bool
}

func AssertHolder(pool *Pool, addr thor.Address) *HolderAssertions {
	return &HolderAssertions{pool: pool, addr: addr}
}

func (ha *HolderAssertions) Balance(expected *big.Int) *HolderAssertions {
	ha.balance = expected
	return ha
}

func (ha *HolderAssertions) Pending(expected *big.Int) *HolderAssertions {
	ha.pending = expected
	return ha
}

func (ha *HolderAssertions) Principal(expected *big.Int) *HolderAssertions {
	ha.principal = expected
	return ha
}

func (ha *HolderAssertions) Absent() *HolderAssertions {
	ha.absent = true
	return ha
}

func (ha *HolderAssertions) Assert(t *testing.T) {
	t.Helper()
	holder, err := ha.pool.Holder(ha.addr)
	require.NoError(t, err, "failed to get holder %s", ha.addr)

	if ha.absent {
		assert.Nil(t, holder, "holder %s should not exist", ha.addr)
	}
	if ha.principal != nil {
		require.NotNil(t, holder, "holder %s should exist", ha.addr)
		assertBig(t, ha.principal, holder.Principal, "holder %s principal", ha.addr)
	}
	if ha.pending != nil {
		pending, err := ha.pool.PendingReward(ha.addr)
		require.NoError(t, err)
		assertBig(t, ha.pending, pending, "holder %s pending reward", ha.addr)
	}
	if ha.balance != nil {
		balance, err := ha.pool.BalanceOf(ha.addr)
		require.NoError(t, err)
		assertBig(t, ha.balance, balance, "holder %s balance", ha.addr)
	}
}

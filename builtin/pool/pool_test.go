// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/rewardpool/builtin/pool/reverts"
	"github.com/vechain/rewardpool/thor"
)

const t0 = uint64(1_700_000_000)

func TestCreate(t *testing.T) {
	p, _ := newTestPool(t)

	name, err := p.Name()
	require.NoError(t, err)
	assert.Equal(t, "ETHPool", name)

	operator, err := p.Operator()
	require.NoError(t, err)
	assert.Equal(t, team, operator)
	assert.True(t, p.Rewardable())

	total, err := p.TotalHolderDeposit()
	require.NoError(t, err)
	assert.Equal(t, 0, total.Sign())
	acc, err := p.AccRewardPerShare()
	require.NoError(t, err)
	assert.Equal(t, 0, acc.Sign())
	last, err := p.LastRewardTime()
	require.NoError(t, err)
	assert.Zero(t, last)

	assert.ErrorIs(t, p.Create("Other", outsider), reverts.ErrAlreadyCreated)
	operator, _ = p.Operator()
	assert.Equal(t, team, operator)
}

func TestNonHolder(t *testing.T) {
	p, _ := newTestPool(t)

	_, err := p.BalanceOf(outsider)
	assert.ErrorIs(t, err, reverts.ErrNoSuchHolder)

	pending, err := p.PendingReward(outsider)
	require.NoError(t, err)
	assert.Equal(t, 0, pending.Sign())

	_, err = p.Withdraw(outsider)
	assert.ErrorIs(t, err, reverts.ErrNoSuchHolder)
}

func TestDepositAndWithdrawWithoutReward(t *testing.T) {
	p, _ := newTestPool(t)

	NewSequence(p).
		Deposit(userA, units(100)).
		Assert(AssertHolder(p, userA).Balance(units(100)).Pending(new(big.Int))).
		TotalHolderDeposit(units(100)).
		Withdraw(userA, units(100)).
		Assert(AssertHolder(p, userA).Absent()).
		TotalHolderDeposit(new(big.Int)).
		Run(t)
}

func TestRewardAndCooldown(t *testing.T) {
	p, _ := newTestPool(t)

	NewSequence(p).
		Deposit(userA, units(100)).
		InjectReward(team, units(110), t0).
		Assert(AssertHolder(p, userA).Pending(units(110)).Balance(units(210))).
		InjectRewardFails(team, units(110), t0+3600, reverts.ErrCooldownActive).
		InjectRewardFails(team, units(110), t0+7*day-1, reverts.ErrCooldownActive).
		Assert(AssertHolder(p, userA).Pending(units(110))).
		Run(t)

	last, err := p.LastRewardTime()
	require.NoError(t, err)
	assert.Equal(t, t0, last)
}

func TestLateDepositDoesNotEarnPastReward(t *testing.T) {
	p, _ := newTestPool(t)

	NewSequence(p).
		Deposit(userA, units(100)).
		InjectReward(team, units(110), t0).
		Deposit(userB, units(300)).
		TotalHolderDeposit(units(400)).
		Assert(AssertHolder(p, userB).Pending(new(big.Int)).Balance(units(300))).
		// a second deposit with no new injection leaves the pending reward as it was
		Deposit(userB, units(256)).
		Assert(AssertHolder(p, userB).Pending(new(big.Int)).Balance(units(556))).
		Assert(AssertHolder(p, userA).Pending(units(110))).
		Run(t)
}

func TestProportionalDistribution(t *testing.T) {
	p, _ := newTestPool(t)

	NewSequence(p).
		Deposit(userA, units(100)).
		InjectReward(team, units(110), t0).
		Deposit(userB, units(300)).
		InjectReward(team, units(180), t0+7*day).
		// 0.011 + 0.018 * 0.01/0.04
		Assert(AssertHolder(p, userA).Pending(units(155)).Balance(units(255))).
		// 0.018 * 0.03/0.04
		Assert(AssertHolder(p, userB).Pending(units(135)).Balance(units(435))).
		Run(t)

	pa, _ := p.PendingReward(userA)
	pb, _ := p.PendingReward(userB)
	assertBig(t, units(110+180), new(big.Int).Add(pa, pb), "pending rewards sum up to injected rewards")
}

func TestDepositCapitalizesPending(t *testing.T) {
	p, _ := newTestPool(t)

	NewSequence(p).
		Deposit(userA, units(100)).
		InjectReward(team, units(110), t0).
		Deposit(userB, units(300)).
		InjectReward(team, units(180), t0+7*day).
		Deposit(userB, units(256)).
		// the pending reward moved into principal, the entitlement grew by the deposit only
		Assert(AssertHolder(p, userB).Pending(new(big.Int)).Principal(units(300+135+256)).Balance(units(435+256))).
		TotalHolderDeposit(units(100+300+135+256)).
		Assert(AssertHolder(p, userA).Pending(units(155))).
		Run(t)
}

func TestWithdrawAll(t *testing.T) {
	p, _ := newTestPool(t)

	NewSequence(p).
		Deposit(userA, units(100)).
		InjectReward(team, units(110), t0).
		Deposit(userB, units(300)).
		InjectReward(team, units(180), t0+7*day).
		TotalHolderDeposit(units(400)).
		Withdraw(userA, units(255)).
		TotalHolderDeposit(units(300)).
		WithdrawFails(userA, reverts.ErrNoSuchHolder).
		Assert(AssertHolder(p, userA).Absent().Pending(new(big.Int))).
		Withdraw(userB, units(435)).
		TotalHolderDeposit(new(big.Int)).
		Run(t)

	_, err := p.BalanceOf(userA)
	assert.ErrorIs(t, err, reverts.ErrNoSuchHolder)
}

func TestRedepositStartsFresh(t *testing.T) {
	p, _ := newTestPool(t)

	NewSequence(p).
		Deposit(userA, units(100)).
		Deposit(userB, units(100)).
		InjectReward(team, units(200), t0).
		Withdraw(userA, units(200)).
		Deposit(userA, units(50)).
		Assert(AssertHolder(p, userA).Pending(new(big.Int)).Balance(units(50))).
		InjectReward(team, units(150), t0+7*day).
		// 150 over a stake of 150, userA holds a third
		Assert(AssertHolder(p, userA).Pending(units(50)).Balance(units(100))).
		Assert(AssertHolder(p, userB).Pending(units(200))).
		Run(t)
}

func TestInjectRewardRejections(t *testing.T) {
	p, _ := newTestPool(t)

	NewSequence(p).
		InjectRewardFails(team, units(10), t0, reverts.ErrNoStakers).
		Deposit(userA, units(100)).
		InjectRewardFails(team, new(big.Int), t0, reverts.ErrZeroRewardAmount).
		InjectRewardFails(team, nil, t0, reverts.ErrZeroRewardAmount).
		InjectRewardFails(userA, units(10), t0, reverts.ErrUnauthorized).
		InjectRewardFails(outsider, units(10), t0, reverts.ErrUnauthorized).
		InjectReward(team, units(10), t0).
		// authorization is checked before amount and cooldown
		InjectRewardFails(outsider, new(big.Int), t0+1, reverts.ErrUnauthorized).
		InjectRewardFails(outsider, units(10), t0+8*day, reverts.ErrUnauthorized).
		// amount is checked before cooldown
		InjectRewardFails(team, new(big.Int), t0+1, reverts.ErrZeroRewardAmount).
		// a clock going backwards is still cooling down
		InjectRewardFails(team, units(10), t0-1, reverts.ErrCooldownActive).
		Run(t)

	last, _ := p.LastRewardTime()
	assert.Equal(t, t0, last)
}

func TestRejectedCallsLeaveNoTrace(t *testing.T) {
	p, st := newTestPool(t)
	require.NoError(t, p.Deposit(userA, units(100)))
	require.NoError(t, p.InjectReward(team, units(100), t0))

	snapshot := func() []string {
		total, _ := p.TotalHolderDeposit()
		acc, _ := p.AccRewardPerShare()
		last, _ := p.LastRewardTime()
		bal, _ := p.BalanceOf(userA)
		return []string{total.String(), acc.String(), new(big.Int).SetUint64(last).String(), bal.String()}
	}
	before := snapshot()

	assert.Error(t, p.InjectReward(team, units(100), t0+1))
	assert.Error(t, p.InjectReward(userA, units(100), t0+8*day))
	_, err := p.Withdraw(userB)
	assert.Error(t, err)

	// overflowing the accumulator aborts after the gates passed
	huge := new(big.Int).Lsh(big.NewInt(1), 250)
	assert.ErrorIs(t, p.InjectReward(team, huge, t0+8*day), reverts.ErrOverflow)

	assert.Equal(t, before, snapshot())

	// a checkpoint taken by the caller still sees the successful changes
	chk := st.NewCheckpoint()
	require.NoError(t, p.Deposit(userB, units(1)))
	st.RevertTo(chk)
	assert.Equal(t, before, snapshot())
}

func TestZeroDeposit(t *testing.T) {
	p, _ := newTestPool(t)

	require.NoError(t, p.Deposit(userA, new(big.Int)))
	require.NoError(t, p.Deposit(userA, nil))
	NewSequence(p).
		Assert(AssertHolder(p, userA).Absent()).
		TotalHolderDeposit(new(big.Int)).
		Run(t)

	assert.Error(t, p.Deposit(userA, big.NewInt(-1)))
}

func TestOperatorOnlyGate(t *testing.T) {
	p, _ := newTestPool(t)
	require.NoError(t, p.Deposit(userA, units(1)))

	for _, caller := range []thor.Address{userA, outsider, {}} {
		assert.ErrorIs(t, p.InjectReward(caller, units(1), t0), reverts.ErrUnauthorized)
	}
	assert.NoError(t, p.InjectReward(team, units(1), t0))
}

func TestUncreatedPoolRejectsRewards(t *testing.T) {
	p, _ := newTestPool(t)
	other := New(thor.BytesToAddress([]byte("other")), p.state)

	require.NoError(t, other.Deposit(userA, units(1)))
	assert.ErrorIs(t, other.InjectReward(thor.Address{}, units(1), t0), reverts.ErrUnauthorized)
	assert.Error(t, other.Create("bad", thor.Address{}))
}

// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"errors"
	"math/big"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/rewardpool/builtin/pool/accumulator"
	"github.com/vechain/rewardpool/builtin/pool/reverts"
	"github.com/vechain/rewardpool/thor"
)

type op struct {
	Kind   uint8
	Holder uint8
	Amount uint64
	Elapse uint32
}

const numHolders = 5

func TestRandomSequencesKeepInvariants(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		var ops []op
		fuzz.NewWithSeed(seed).NilChance(0).NumElements(100, 300).Fuzz(&ops)
		runOps(t, seed, ops)
	}
}

func runOps(t *testing.T, seed int64, ops []op) {
	p, _ := newTestPool(t)

	holderAddrs := make([]thor.Address, numHolders)
	for i := range holderAddrs {
		holderAddrs[i] = thor.BytesToAddress([]byte{byte(i + 1)})
	}

	var (
		now       = t0
		prevAcc   = new(big.Int)
		value     = new(big.Int) // deposits + rewards - payouts
		bound     = new(big.Int) // accumulated truncation allowance
		deposited = make(map[thor.Address]bool)
	)

	for i, o := range ops {
		holder := holderAddrs[int(o.Holder)%numHolders]
		amount := new(big.Int).SetUint64(o.Amount)
		now += uint64(o.Elapse) % (10 * day)

		switch o.Kind % 4 {
		case 0, 1:
			require.NoError(t, p.Deposit(holder, amount), "seed %d op %d", seed, i)
			value.Add(value, amount)
			bound.Add(bound, big.NewInt(2))
			if amount.Sign() > 0 {
				deposited[holder] = true
			}
		case 2:
			payout, err := p.Withdraw(holder)
			if err != nil {
				require.ErrorIs(t, err, reverts.ErrNoSuchHolder, "seed %d op %d", seed, i)
				break
			}
			value.Sub(value, payout)
			bound.Add(bound, big.NewInt(2))
			delete(deposited, holder)
			_, err = p.BalanceOf(holder)
			assert.ErrorIs(t, err, reverts.ErrNoSuchHolder)
		case 3:
			caller := team
			if o.Holder%7 == 0 {
				caller = holder
			}
			totalBefore, err := p.TotalHolderDeposit()
			require.NoError(t, err)
			err = p.InjectReward(caller, amount, now)
			if err != nil {
				allowed := errors.Is(err, reverts.ErrUnauthorized) ||
					errors.Is(err, reverts.ErrZeroRewardAmount) ||
					errors.Is(err, reverts.ErrCooldownActive) ||
					errors.Is(err, reverts.ErrNoStakers)
				require.True(t, allowed, "seed %d op %d: unexpected error %v", seed, i, err)
				break
			}
			value.Add(value, amount)
			// the per share increment truncates up to totalStake/P, each holder's share up to 1
			bound.Add(bound, new(big.Int).Div(totalBefore, accumulator.Precision()))
			bound.Add(bound, big.NewInt(1+2*numHolders))
		}

		// sum of principal equals total stake, pending rewards are never negative
		sumPrincipal := new(big.Int)
		sumBalance := new(big.Int)
		for _, addr := range holderAddrs {
			h, err := p.Holder(addr)
			require.NoError(t, err)
			pending, err := p.PendingReward(addr)
			require.NoError(t, err)
			require.True(t, pending.Sign() >= 0, "seed %d op %d: negative pending %v", seed, i, pending)
			if h == nil {
				assert.False(t, deposited[addr], "seed %d op %d: holder %s lost", seed, i, addr)
				continue
			}
			require.Positive(t, h.Principal.Sign(), "seed %d op %d: empty account stored", seed, i)
			sumPrincipal.Add(sumPrincipal, h.Principal)
			bal, err := p.BalanceOf(addr)
			require.NoError(t, err)
			sumBalance.Add(sumBalance, bal)
		}
		total, err := p.TotalHolderDeposit()
		require.NoError(t, err)
		require.Zero(t, total.Cmp(sumPrincipal), "seed %d op %d: total %v != sum %v", seed, i, total, sumPrincipal)

		// the accumulator never decreases
		acc, err := p.AccRewardPerShare()
		require.NoError(t, err)
		require.True(t, acc.Cmp(prevAcc) >= 0, "seed %d op %d: acc decreased", seed, i)
		prevAcc = acc

		// entitlements match the value held, up to integer truncation
		dust := new(big.Int).Sub(value, sumBalance)
		require.True(t, new(big.Int).Abs(dust).Cmp(bound) <= 0,
			"seed %d op %d: value %v vs entitlements %v", seed, i, value, sumBalance)
	}
}

// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vechain/rewardpool/log"
	"github.com/vechain/rewardpool/thor"
	"github.com/vechain/rewardpool/xenv"
)

var logger = log.WithContext("pkg", "builtin")

func init() {
	withdrawSucceed := Pool.mustEvent("WithdrawSucceed")

	Pool.impl("deposit", func(env *xenv.Environment) []any {
		must(env, Pool.Native(env.State()).Deposit(env.Caller(), env.Value()))
		return nil
	})
	Pool.impl("depositReward", func(env *xenv.Environment) []any {
		must(env, Pool.Native(env.State()).InjectReward(env.Caller(), env.Value(), env.BlockContext().Time))
		return nil
	})
	Pool.impl("withdraw", func(env *xenv.Environment) []any {
		holder := env.Caller()
		payout, err := Pool.Native(env.State()).Withdraw(holder)
		must(env, err)

		// the account is gone, now move the value out of the contract
		balance, err := env.State().GetBalance(Pool.Address)
		must(env, err)
		if balance.Cmp(payout) < 0 {
			logger.Warn("pool balance short of payout", "holder", holder, "payout", payout, "balance", balance)
			payout = balance
		}
		_, err = env.State().Transfer(Pool.Address, holder, payout)
		must(env, err)

		env.Log(withdrawSucceed, Pool.Address, []thor.Bytes32{thor.BytesToBytes32(holder.Bytes())}, payout)
		return nil
	})
	Pool.impl("balance", func(env *xenv.Environment) []any {
		balance, err := Pool.Native(env.State()).BalanceOf(env.Caller())
		must(env, err)
		return []any{balance}
	})
	Pool.impl("balanceOf", func(env *xenv.Environment) []any {
		var holder common.Address
		env.ParseArgs(&holder)
		balance, err := Pool.Native(env.State()).BalanceOf(thor.Address(holder))
		must(env, err)
		return []any{balance}
	})
	Pool.impl("getPendingReward", func(env *xenv.Environment) []any {
		var holder common.Address
		env.ParseArgs(&holder)
		pending, err := Pool.Native(env.State()).PendingReward(thor.Address(holder))
		must(env, err)
		return []any{pending}
	})
	Pool.impl("getTotalHolderDeposit", func(env *xenv.Environment) []any {
		total, err := Pool.Native(env.State()).TotalHolderDeposit()
		must(env, err)
		return []any{total}
	})
	Pool.impl("owner", func(env *xenv.Environment) []any {
		operator, err := Pool.Native(env.State()).Operator()
		must(env, err)
		return []any{common.Address(operator)}
	})
	Pool.impl("name", func(env *xenv.Environment) []any {
		name, err := Pool.Native(env.State()).Name()
		must(env, err)
		return []any{name}
	})
	Pool.impl("rewardable", func(env *xenv.Environment) []any {
		return []any{Pool.Native(env.State()).Rewardable()}
	})
	Pool.impl("accRewardPerShare", func(env *xenv.Environment) []any {
		acc, err := Pool.Native(env.State()).AccRewardPerShare()
		must(env, err)
		return []any{acc}
	})
	Pool.impl("lastRewardTime", func(env *xenv.Environment) []any {
		last, err := Pool.Native(env.State()).LastRewardTime()
		must(env, err)
		return []any{new(big.Int).SetUint64(last)}
	})
}

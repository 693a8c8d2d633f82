// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/builtin/pool/accumulator"
	"github.com/vechain/rewardpool/builtin/pool/holders"
	"github.com/vechain/rewardpool/builtin/pool/reverts"
	"github.com/vechain/rewardpool/builtin/solidity"
	"github.com/vechain/rewardpool/log"
	"github.com/vechain/rewardpool/state"
	"github.com/vechain/rewardpool/thor"
)

var (
	logger = log.WithContext("pkg", "pool")

	slotOperator = solidity.Slot("operator")
	slotName     = solidity.Slot("name")
)

func SetLogger(l log.Logger) {
	logger = l
}

// Pool implements the reward ledger kept in the storage of the pool contract.
// Every mutating call is applied atomically: it either completes or leaves the state untouched.
type Pool struct {
	addr  thor.Address
	state *state.State

	operator *solidity.Address
	name     *solidity.String

	holderService      *holders.Service
	accumulatorService *accumulator.Service
}

// New create a new instance.
func New(addr thor.Address, state *state.State) *Pool {
	sctx := solidity.NewContext(addr, state)

	return &Pool{
		addr:               addr,
		state:              state,
		operator:           solidity.NewAddress(sctx, slotOperator),
		name:               solidity.NewString(sctx, slotName),
		holderService:      holders.New(sctx),
		accumulatorService: accumulator.New(sctx),
	}
}

// Address returns the pool contract address.
func (p *Pool) Address() thor.Address {
	return p.addr
}

// Create initializes the ledger with creator as its operator. All counters start at zero.
func (p *Pool) Create(name string, creator thor.Address) error {
	return p.atomic(func() error {
		operator, err := p.operator.Get()
		if err != nil {
			return err
		}
		if !operator.IsZero() {
			return reverts.ErrAlreadyCreated
		}
		if creator.IsZero() {
			return errors.New("pool creator must not be zero")
		}
		p.operator.Set(creator)
		if err := p.name.Set(name); err != nil {
			return err
		}
		logger.Info("pool created", "address", p.addr, "name", name, "operator", creator)
		return nil
	})
}

//
// Getters - no state change
//

// Name returns the pool name.
func (p *Pool) Name() (string, error) {
	return p.name.Get()
}

// Operator returns the identity allowed to inject rewards.
func (p *Pool) Operator() (thor.Address, error) {
	return p.operator.Get()
}

// Rewardable is always true, the pool accepts reward injections.
func (p *Pool) Rewardable() bool {
	return true
}

// TotalHolderDeposit returns the sum of all holders' principal.
func (p *Pool) TotalHolderDeposit() (*big.Int, error) {
	return p.holderService.TotalStake()
}

// AccRewardPerShare returns the accumulated reward per unit of stake, scaled by accumulator.Precision().
func (p *Pool) AccRewardPerShare() (*big.Int, error) {
	return p.accumulatorService.AccRewardPerShare()
}

// LastRewardTime returns the time of the last reward injection, 0 before the first one.
func (p *Pool) LastRewardTime() (uint64, error) {
	return p.accumulatorService.LastRewardTime()
}

// BalanceOf returns principal plus pending reward of holder.
// It fails with reverts.ErrNoSuchHolder when holder has no account.
func (p *Pool) BalanceOf(holder thor.Address) (*big.Int, error) {
	h, acc, err := p.holderAndAcc(holder)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, reverts.ErrNoSuchHolder
	}
	return h.Balance(acc)
}

// PendingReward returns the reward holder accrued since its last settlement, 0 when it has no account.
func (p *Pool) PendingReward(holder thor.Address) (*big.Int, error) {
	h, acc, err := p.holderAndAcc(holder)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return new(big.Int), nil
	}
	return h.Pending(acc)
}

// Holder returns the raw account of holder, nil when absent.
func (p *Pool) Holder(holder thor.Address) (*holders.Holder, error) {
	return p.holderService.GetHolder(holder)
}

func (p *Pool) holderAndAcc(holder thor.Address) (*holders.Holder, *big.Int, error) {
	h, err := p.holderService.GetHolder(holder)
	if err != nil {
		return nil, nil, err
	}
	acc, err := p.accumulatorService.AccRewardPerShare()
	if err != nil {
		return nil, nil, err
	}
	return h, acc, nil
}

//
// Setters - state change
//

// Deposit adds amount to the stake of holder, capitalizing its pending reward first.
// A zero amount succeeds without any change.
func (p *Pool) Deposit(holder thor.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	if amount.Sign() < 0 {
		return errors.New("negative deposit amount")
	}
	return p.atomic(func() error {
		acc, err := p.accumulatorService.AccRewardPerShare()
		if err != nil {
			return err
		}
		capitalized, err := p.holderService.Deposit(holder, amount, acc)
		if err != nil {
			return err
		}
		metricDeposits().Add(1)
		logger.Debug("deposit", "holder", holder, "amount", amount, "capitalized", capitalized)
		return nil
	})
}

// InjectReward distributes amount over all current stake.
// Only the operator may inject, at most once per cooldown period.
func (p *Pool) InjectReward(caller thor.Address, amount *big.Int, now uint64) error {
	return p.atomic(func() error {
		if err := p.checkOperator(caller); err != nil {
			return err
		}
		if amount == nil || amount.Sign() <= 0 {
			return reverts.ErrZeroRewardAmount
		}
		if err := p.checkCooldown(now); err != nil {
			return err
		}
		totalStake, err := p.holderService.TotalStake()
		if err != nil {
			return err
		}
		acc, err := p.accumulatorService.Inject(amount, totalStake, now)
		if err != nil {
			return err
		}
		metricRewardInjections().Add(1)
		logger.Debug("reward injected", "amount", amount, "totalStake", totalStake, "acc", acc, "time", now)
		return nil
	})
}

// Withdraw closes the account of holder and returns the amount owed to it.
// The account is removed before the caller transfers the payout.
func (p *Pool) Withdraw(holder thor.Address) (payout *big.Int, err error) {
	err = p.atomic(func() error {
		acc, err := p.accumulatorService.AccRewardPerShare()
		if err != nil {
			return err
		}
		payout, err = p.holderService.Withdraw(holder, acc)
		if err != nil {
			return err
		}
		metricWithdrawals().Add(1)
		logger.Debug("withdraw", "holder", holder, "amount", payout)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payout, nil
}

// atomic runs fn inside a state checkpoint, reverting every change if fn fails.
func (p *Pool) atomic(fn func() error) error {
	checkpoint := p.state.NewCheckpoint()
	if err := fn(); err != nil {
		p.state.RevertTo(checkpoint)
		if reverts.IsRevertErr(err) {
			metricReverts().AddWithLabel(1, map[string]string{"reason": reverts.Reason(err)})
		}
		return err
	}
	return nil
}

// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package holders

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/builtin/pool/accumulator"
	"github.com/vechain/rewardpool/builtin/pool/reverts"
	"github.com/vechain/rewardpool/builtin/solidity"
	"github.com/vechain/rewardpool/thor"
)

var (
	slotHolders    = solidity.Slot("holders")
	slotTotalStake = solidity.Slot("total-stake")
)

// Service manages holder accounts and the total stake they sum up to.
type Service struct {
	holders    *solidity.Mapping[thor.Address, *Holder]
	totalStake *solidity.Uint256
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		holders:    solidity.NewMapping[thor.Address, *Holder](sctx, slotHolders),
		totalStake: solidity.NewUint256(sctx, slotTotalStake),
	}
}

// GetHolder returns the account of addr, nil if there is none.
func (s *Service) GetHolder(addr thor.Address) (*Holder, error) {
	h, err := s.holders.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get holder")
	}
	if h.IsEmpty() {
		return nil, nil
	}
	return h, nil
}

// TotalStake returns the sum of all holders' principal.
func (s *Service) TotalStake() (*big.Int, error) {
	return s.totalStake.Get()
}

// Deposit settles the pending reward of addr into its principal and adds amount on top.
// A missing account is created. It returns the capitalized pending reward.
func (s *Service) Deposit(addr thor.Address, amount, acc *big.Int) (*big.Int, error) {
	h, err := s.GetHolder(addr)
	if err != nil {
		return nil, err
	}
	isNew := h == nil
	if isNew {
		h = &Holder{Principal: new(big.Int), RewardDebt: new(big.Int)}
	}

	pending, err := h.Pending(acc)
	if err != nil {
		return nil, err
	}
	principal := new(big.Int).Add(h.Principal, pending)
	principal.Add(principal, amount)
	debt, err := accumulator.Accrued(principal, acc)
	if err != nil {
		return nil, err
	}
	updated := &Holder{Principal: principal, RewardDebt: debt}

	if isNew {
		err = s.holders.Insert(addr, updated)
	} else {
		err = s.holders.Update(addr, updated)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to set holder")
	}

	if err := s.totalStake.Add(new(big.Int).Add(amount, pending)); err != nil {
		if errors.Is(err, solidity.ErrUint256Overflow) {
			return nil, reverts.ErrOverflow
		}
		return nil, errors.Wrap(err, "failed to increase total stake")
	}
	return pending, nil
}

// Withdraw removes the account of addr and returns principal plus pending reward.
// Effects are applied here, the caller moves the value out afterwards.
func (s *Service) Withdraw(addr thor.Address, acc *big.Int) (*big.Int, error) {
	h, err := s.GetHolder(addr)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, reverts.ErrNoSuchHolder
	}
	payout, err := h.Balance(acc)
	if err != nil {
		return nil, err
	}

	if err := s.totalStake.Sub(h.Principal); err != nil {
		return nil, errors.Wrap(err, "failed to decrease total stake")
	}
	s.holders.Delete(addr)
	return payout, nil
}

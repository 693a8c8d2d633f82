// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package holders

import (
	"math/big"

	"github.com/vechain/rewardpool/builtin/pool/accumulator"
)

// Holder is the stake account of a single depositor.
type Holder struct {
	Principal  *big.Int // last settled stake, including capitalized rewards
	RewardDebt *big.Int // Principal * acc / P at last settlement
}

// IsEmpty returns whether the holder was never stored.
func (h *Holder) IsEmpty() bool {
	return h == nil || h.Principal == nil || h.Principal.Sign() == 0
}

// Pending returns the reward accrued since the last settlement.
func (h *Holder) Pending(acc *big.Int) (*big.Int, error) {
	if h.IsEmpty() {
		return new(big.Int), nil
	}
	accrued, err := accumulator.Accrued(h.Principal, acc)
	if err != nil {
		return nil, err
	}
	if h.RewardDebt != nil {
		accrued.Sub(accrued, h.RewardDebt)
	}
	return accrued, nil
}

// Balance returns principal plus pending reward.
func (h *Holder) Balance(acc *big.Int) (*big.Int, error) {
	pending, err := h.Pending(acc)
	if err != nil {
		return nil, err
	}
	if h.IsEmpty() {
		return pending, nil
	}
	return pending.Add(pending, h.Principal), nil
}

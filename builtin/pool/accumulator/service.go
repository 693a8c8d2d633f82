// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accumulator

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/vechain/rewardpool/builtin/pool/reverts"
	"github.com/vechain/rewardpool/builtin/solidity"
	"github.com/vechain/rewardpool/thor"
)

var (
	slotAccRewardPerShare = solidity.Slot("acc-reward-per-share")
	slotLastRewardTime    = solidity.Slot("last-reward-time")
)

var precision = new(big.Int).Set(thor.Ether)

// Precision returns the scale of the reward per share figure.
func Precision() *big.Int {
	return new(big.Int).Set(precision)
}

// Service keeps the global reward per unit of stake.
// An injection is O(1): holders settle lazily against the accumulated figure.
type Service struct {
	accRewardPerShare *solidity.Uint256
	lastRewardTime    *solidity.Uint64
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		accRewardPerShare: solidity.NewUint256(sctx, slotAccRewardPerShare),
		lastRewardTime:    solidity.NewUint64(sctx, slotLastRewardTime),
	}
}

// AccRewardPerShare returns the accumulated reward per share, scaled by Precision().
func (s *Service) AccRewardPerShare() (*big.Int, error) {
	return s.accRewardPerShare.Get()
}

// LastRewardTime returns the time of the last injection, 0 if none happened.
func (s *Service) LastRewardTime() (uint64, error) {
	return s.lastRewardTime.Get()
}

// Inject spreads amount over totalStake and records now as the last reward time.
// It returns the new accumulated reward per share.
func (s *Service) Inject(amount, totalStake *big.Int, now uint64) (*big.Int, error) {
	if totalStake.Sign() == 0 {
		return nil, reverts.ErrNoStakers
	}
	delta, err := MulDiv(amount, precision, totalStake)
	if err != nil {
		return nil, err
	}
	acc, err := s.accRewardPerShare.Get()
	if err != nil {
		return nil, err
	}
	acc, err = add(acc, delta)
	if err != nil {
		return nil, err
	}
	if err := s.accRewardPerShare.Set(acc); err != nil {
		return nil, err
	}
	s.lastRewardTime.Set(now)
	return acc, nil
}

// Accrued returns principal * acc / Precision(), the reward a principal has earned
// since the accumulator was zero.
func Accrued(principal, acc *big.Int) (*big.Int, error) {
	return MulDiv(principal, acc, precision)
}

// MulDiv computes x * y / d (floor) in 256 bits.
// Inputs that do not fit and a product wider than 256 bits yield reverts.ErrOverflow.
func MulDiv(x, y, d *big.Int) (*big.Int, error) {
	ux, err := toUint256(x)
	if err != nil {
		return nil, err
	}
	uy, err := toUint256(y)
	if err != nil {
		return nil, err
	}
	ud, err := toUint256(d)
	if err != nil {
		return nil, err
	}
	prod, overflow := new(uint256.Int).MulOverflow(ux, uy)
	if overflow {
		return nil, reverts.ErrOverflow
	}
	return prod.Div(prod, ud).ToBig(), nil
}

func add(x, y *big.Int) (*big.Int, error) {
	ux, err := toUint256(x)
	if err != nil {
		return nil, err
	}
	uy, err := toUint256(y)
	if err != nil {
		return nil, err
	}
	sum, overflow := new(uint256.Int).AddOverflow(ux, uy)
	if overflow {
		return nil, reverts.ErrOverflow
	}
	return sum.ToBig(), nil
}

func toUint256(v *big.Int) (*uint256.Int, error) {
	if v.Sign() < 0 {
		return nil, reverts.ErrOverflow
	}
	u, overflow := uint256.FromBig(v)
	if overflow {
		return nil, reverts.ErrOverflow
	}
	return u, nil
}

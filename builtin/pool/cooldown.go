// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/vechain/rewardpool/builtin/pool/reverts"
	"github.com/vechain/rewardpool/thor"
)

// checkCooldown passes when no reward was ever injected, or when at least
// thor.RewardCooldown seconds elapsed since the last injection.
// A clock running backwards counts as cooling down.
func (p *Pool) checkCooldown(now uint64) error {
	last, err := p.accumulatorService.LastRewardTime()
	if err != nil {
		return err
	}
	if last == 0 {
		return nil
	}
	if now < last || now-last < thor.RewardCooldown {
		return reverts.ErrCooldownActive
	}
	return nil
}

// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import "math/big"

// Constants of the reward pool.
const (
	// RewardCooldown is the minimum interval in seconds between two reward injections.
	RewardCooldown uint64 = 7 * 24 * 60 * 60
)

// Ether is the value unit deposits and rewards are denominated in (1e18 wei).
var Ether = big.NewInt(1e18)

// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"math/big"
	mathrand "math/rand/v2"

	"github.com/vechain/rewardpool/thor"
)

func RandIntN(n int) int {
	return mathrand.N(n) //#nosec G404
}

// RandEther returns a whole amount of ether in [1, n].
func RandEther(n int) *big.Int {
	return new(big.Int).Mul(big.NewInt(int64(RandIntN(n)+1)), thor.Ether)
}

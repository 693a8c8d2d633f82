// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/vechain/rewardpool/builtin/pool"
	"github.com/vechain/rewardpool/state"
)

// Builtin contracts binding.
var (
	Pool = &poolContract{mustLoadContract("pool")}
)

type poolContract struct{ *contract }

// Native returns the ledger of the pool contract on top of state.
func (p *poolContract) Native(state *state.State) *pool.Pool {
	return pool.New(p.Address, state)
}

// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/vechain/rewardpool/builtin/pool/reverts"
	"github.com/vechain/rewardpool/thor"
)

// checkOperator rejects callers other than the stored operator.
func (p *Pool) checkOperator(caller thor.Address) error {
	operator, err := p.operator.Get()
	if err != nil {
		return err
	}
	if operator.IsZero() || caller != operator {
		return reverts.ErrUnauthorized
	}
	return nil
}

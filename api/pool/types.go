// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/rewardpool/thor"
	"github.com/vechain/rewardpool/tx"
)

// Summary is the state of the reward pool.
type Summary struct {
	Address            thor.Address          `json:"address"`
	Name               string                `json:"name"`
	Operator           thor.Address          `json:"operator"`
	Rewardable         bool                  `json:"rewardable"`
	TotalHolderDeposit *math.HexOrDecimal256 `json:"totalHolderDeposit"`
	AccRewardPerShare  *math.HexOrDecimal256 `json:"accRewardPerShare"`
	LastRewardTime     uint64                `json:"lastRewardTime"`
}

// Holder is the account of a depositor.
type Holder struct {
	Address    thor.Address          `json:"address"`
	Principal  *math.HexOrDecimal256 `json:"principal"`
	RewardDebt *math.HexOrDecimal256 `json:"rewardDebt"`
	Pending    *math.HexOrDecimal256 `json:"pending"`
	Balance    *math.HexOrDecimal256 `json:"balance"`
}

// Request is a state changing call on the pool. The origin is recovered from
// the signature over the clause built by NewClause.
type Request struct {
	Value     *math.HexOrDecimal256 `json:"value,omitempty"`
	Nonce     math.HexOrDecimal64   `json:"nonce"`
	Signature hexutil.Bytes         `json:"signature"`
}

// Event is an event emitted by an executed request.
type Event struct {
	Address thor.Address   `json:"address"`
	Topics  []thor.Bytes32 `json:"topics"`
	Data    string         `json:"data"`
}

// Receipt is the result of a state changing request.
type Receipt struct {
	ClauseID     thor.Bytes32 `json:"clauseID"`
	Origin       thor.Address `json:"origin"`
	Time         uint64       `json:"time"`
	Reverted     bool         `json:"reverted"`
	RevertReason string       `json:"revertReason,omitempty"`
	Events       []*Event     `json:"events"`
}

// Withdrawal is a settled withdrawal read back from the event index.
type Withdrawal struct {
	Holder   thor.Address          `json:"holder"`
	Amount   *math.HexOrDecimal256 `json:"amount"`
	Time     uint64                `json:"time"`
	ClauseID thor.Bytes32          `json:"clauseID"`
}

func hexOrDecimal(v *big.Int) *math.HexOrDecimal256 {
	return (*math.HexOrDecimal256)(v)
}

func convertReceipt(r *tx.Receipt) *Receipt {
	receipt := &Receipt{
		ClauseID:     r.ClauseID,
		Origin:       r.Origin,
		Time:         r.Time,
		Reverted:     r.Reverted,
		RevertReason: r.RevertReason,
		Events:       make([]*Event, 0),
	}
	if r.Output != nil {
		for _, ev := range r.Output.Events {
			receipt.Events = append(receipt.Events, &Event{
				Address: ev.Address,
				Topics:  ev.Topics,
				Data:    hexutil.Encode(ev.Data),
			})
		}
	}
	return receipt
}

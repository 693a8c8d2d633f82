// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/rewardpool/thor"
	"github.com/vechain/rewardpool/tx"
)

// Account for marshal account
type Account struct {
	Balance *math.HexOrDecimal256 `json:"balance"`
	Nonce   math.HexOrDecimal64   `json:"nonce"`
}

// CallData represents contract-call body
type CallData struct {
	Value  *math.HexOrDecimal256 `json:"value"`
	Data   string                `json:"data"`
	Caller *thor.Address         `json:"caller"`
}

type Event struct {
	Address thor.Address   `json:"address"`
	Topics  []thor.Bytes32 `json:"topics"`
	Data    string         `json:"data"`
}

// CallResult is the result of a read-only call.
type CallResult struct {
	Data     string   `json:"data"`
	Events   []*Event `json:"events"`
	Reverted bool     `json:"reverted"`
	VMError  string   `json:"vmError"`
}

func convertOutput(output *tx.Output) *CallResult {
	result := &CallResult{
		Data:   hexutil.Encode(output.Data),
		Events: make([]*Event, 0, len(output.Events)),
	}
	for _, ev := range output.Events {
		result.Events = append(result.Events, &Event{
			Address: ev.Address,
			Topics:  ev.Topics,
			Data:    hexutil.Encode(ev.Data),
		})
	}
	return result
}

// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"github.com/vechain/rewardpool/thor"
)

// Event represents a contract event log.
type Event struct {
	// address of the contract that generated the event
	Address thor.Address
	// list of topics provided by the contract.
	Topics []thor.Bytes32
	// supplied by the contract, usually ABI-encoded
	Data []byte
}

// Events slice of event logs.
type Events []*Event

// Output output of clause execution.
type Output struct {
	// returned data of the called method
	Data []byte
	// events produced by the clause
	Events Events
}

// Receipt represents the results of a clause execution.
type Receipt struct {
	// hash of the clause and its origin
	ClauseID thor.Bytes32
	// the account that sent the clause
	Origin thor.Address
	// time of execution
	Time uint64
	// whether the clause was reverted, with no state change
	Reverted bool
	// reason of the revert if any
	RevertReason string
	// abi encoded revert data if any
	RevertData []byte
	// outputs of a successful execution
	Output *Output
}

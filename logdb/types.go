// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"github.com/vechain/rewardpool/thor"
	"github.com/vechain/rewardpool/tx"
)

// Event represents tx.Event that can be stored in db.
type Event struct {
	Seq      uint64
	Index    uint32
	Time     uint64
	ClauseID thor.Bytes32
	Origin   thor.Address
	Address  thor.Address // always a contract address
	Topics   [5]*thor.Bytes32
	Data     []byte
}

// newEvent converts tx.Event to Event.
func newEvent(seq uint64, index uint32, receipt *tx.Receipt, txEvent *tx.Event) *Event {
	ev := &Event{
		Seq:      seq,
		Index:    index,
		Time:     receipt.Time,
		ClauseID: receipt.ClauseID,
		Origin:   receipt.Origin,
		Address:  txEvent.Address,
		Data:     txEvent.Data,
	}
	for i := 0; i < len(txEvent.Topics) && i < len(ev.Topics); i++ {
		topic := txEvent.Topics[i]
		ev.Topics[i] = &topic
	}
	return ev
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range bounds the execution time of matched events, both ends inclusive.
type Range struct {
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

type EventCriteria struct {
	Address *thor.Address // always a contract address
	Topics  [5]*thor.Bytes32
}

// EventFilter filter
type EventFilter struct {
	CriteriaSet []*EventCriteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
}

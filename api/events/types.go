// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/vechain/rewardpool/logdb"
	"github.com/vechain/rewardpool/thor"
)

type EventCriteria struct {
	Address *thor.Address `json:"address"`
	Topic0  *thor.Bytes32 `json:"topic0"`
	Topic1  *thor.Bytes32 `json:"topic1"`
	Topic2  *thor.Bytes32 `json:"topic2"`
	Topic3  *thor.Bytes32 `json:"topic3"`
	Topic4  *thor.Bytes32 `json:"topic4"`
}

// Range is a time range of executed clauses, both ends inclusive.
type Range struct {
	From *uint64 `json:"from,omitempty"`
	To   *uint64 `json:"to,omitempty"`
}

type Options struct {
	Offset         uint64 `json:"offset"`
	Limit          uint64 `json:"limit"`
	IncludeIndexes bool   `json:"includeIndexes"`
}

type EventFilter struct {
	CriteriaSet []*EventCriteria `json:"criteriaSet"`
	Range       *Range           `json:"range"`
	Options     *Options         `json:"options"`
	Order       logdb.Order      `json:"order"`
}

type LogMeta struct {
	ClauseID thor.Bytes32 `json:"clauseID"`
	Origin   thor.Address `json:"origin"`
	Time     uint64       `json:"time"`
	Seq      *uint64      `json:"seq,omitempty"`
	Index    *uint32      `json:"index,omitempty"`
}

// FilteredEvent is an indexed event with the meta of the clause that emitted it.
type FilteredEvent struct {
	Address thor.Address    `json:"address"`
	Topics  []*thor.Bytes32 `json:"topics"`
	Data    string          `json:"data"`
	Meta    LogMeta         `json:"meta"`
}

func convertEvent(event *logdb.Event, addIndexes bool) *FilteredEvent {
	fe := &FilteredEvent{
		Address: event.Address,
		Data:    hexutil.Encode(event.Data),
		Meta: LogMeta{
			ClauseID: event.ClauseID,
			Origin:   event.Origin,
			Time:     event.Time,
		},
		Topics: make([]*thor.Bytes32, 0),
	}
	if addIndexes {
		seq, index := event.Seq, event.Index
		fe.Meta.Seq = &seq
		fe.Meta.Index = &index
	}
	for _, topic := range event.Topics {
		if topic != nil {
			fe.Topics = append(fe.Topics, topic)
		}
	}
	return fe
}

func convertEventFilter(filter *EventFilter) (*logdb.EventFilter, error) {
	f := &logdb.EventFilter{
		Order: filter.Order,
	}
	switch filter.Order {
	case "":
		f.Order = logdb.ASC
	case logdb.ASC, logdb.DESC:
	default:
		return nil, fmt.Errorf("order: unsupported value %q", filter.Order)
	}
	if filter.Range != nil {
		f.Range = &logdb.Range{}
		if filter.Range.From != nil {
			f.Range.From = *filter.Range.From
		}
		if filter.Range.To != nil {
			f.Range.To = *filter.Range.To
		}
	}
	if filter.Options != nil {
		f.Options = &logdb.Options{
			Offset: filter.Options.Offset,
			Limit:  filter.Options.Limit,
		}
	}
	for _, c := range filter.CriteriaSet {
		f.CriteriaSet = append(f.CriteriaSet, &logdb.EventCriteria{
			Address: c.Address,
			Topics:  [5]*thor.Bytes32{c.Topic0, c.Topic1, c.Topic2, c.Topic3, c.Topic4},
		})
	}
	return f, nil
}

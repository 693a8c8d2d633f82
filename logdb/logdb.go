// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/thor"
	"github.com/vechain/rewardpool/tx"
)

// LogDB indexes the events of executed clauses. Every inserted receipt
// gets the next sequence number, so events are totally ordered by (seq, index).
type LogDB struct {
	path          string
	db            *sql.DB
	driverVersion string

	lock    sync.Mutex
	lastSeq uint64
}

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()
	// an in-memory database lives as long as its single connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, errors.Wrap(err, "create schema")
	}

	var lastSeq sql.NullInt64
	if err := db.QueryRow("SELECT MAX(seq) FROM event").Scan(&lastSeq); err != nil {
		return nil, errors.Wrap(err, "load last seq")
	}

	driverVer, _, _ := sqlite3.Version()
	return &LogDB{
		path:          path,
		db:            db,
		driverVersion: driverVer,
		lastSeq:       uint64(lastSeq.Int64),
	}, nil
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return New(":memory:")
}

// Close close the log db.
func (db *LogDB) Close() error {
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

func (db *LogDB) DriverVersion() string {
	return db.driverVersion
}

// LastSeq returns the sequence number of the latest indexed receipt, 0 if none.
func (db *LogDB) LastSeq() uint64 {
	db.lock.Lock()
	defer db.lock.Unlock()
	return db.lastSeq
}

// Insert indexes the events of a successful receipt. Reverted receipts and
// receipts without events are ignored.
func (db *LogDB) Insert(ctx context.Context, receipt *tx.Receipt) error {
	if receipt.Reverted || receipt.Output == nil || len(receipt.Output.Events) == 0 {
		return nil
	}

	db.lock.Lock()
	defer db.lock.Unlock()

	seq := db.lastSeq + 1
	err := db.execInTx(ctx, func(sqlTx *sql.Tx) error {
		stmt, err := sqlTx.PrepareContext(ctx, "INSERT INTO event(seq, eventIndex, time, clauseID, origin, address, topic0, topic1, topic2, topic3, topic4, data) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);")
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, txEvent := range receipt.Output.Events {
			event := newEvent(seq, uint32(i), receipt, txEvent)
			if _, err := stmt.ExecContext(ctx,
				event.Seq,
				event.Index,
				event.Time,
				event.ClauseID.Bytes(),
				event.Origin.Bytes(),
				event.Address.Bytes(),
				topicValue(event.Topics[0]),
				topicValue(event.Topics[1]),
				topicValue(event.Topics[2]),
				topicValue(event.Topics[3]),
				topicValue(event.Topics[4]),
				event.Data,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	db.lastSeq = seq
	metricInsertedEvents().Add(int64(len(receipt.Output.Events)))
	return nil
}

func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	if filter == nil {
		return db.queryEvents(ctx, "SELECT * FROM event ORDER BY seq ASC, eventIndex ASC")
	}
	metricsHandleEventsFilter(filter)

	var args []any
	stmt := "SELECT * FROM event WHERE 1"
	if filter.Range != nil {
		args = append(args, filter.Range.From)
		stmt += " AND time >= ? "
		if filter.Range.To >= filter.Range.From {
			args = append(args, filter.Range.To)
			stmt += " AND time <= ? "
		}
	}
	for i, criteria := range filter.CriteriaSet {
		if i == 0 {
			stmt += " AND (( 1"
		} else {
			stmt += " OR ( 1"
		}
		if criteria.Address != nil {
			args = append(args, criteria.Address.Bytes())
			stmt += " AND address = ? "
		}
		for j, topic := range criteria.Topics {
			if topic != nil {
				args = append(args, topic.Bytes())
				stmt += fmt.Sprintf(" AND topic%v = ?", j)
			}
		}
		stmt += ")"
		if i == len(filter.CriteriaSet)-1 {
			stmt += ")"
		}
	}

	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC, eventIndex DESC "
	} else {
		stmt += " ORDER BY seq ASC, eventIndex ASC "
	}

	if filter.Options != nil {
		stmt += " LIMIT ?, ? "
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.queryEvents(ctx, stmt, args...)
}

func (db *LogDB) queryEvents(ctx context.Context, stmt string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq      uint64
			index    uint32
			time     uint64
			clauseID []byte
			origin   []byte
			address  []byte
			topics   [5][]byte
			data     []byte
		)
		if err := rows.Scan(
			&seq,
			&index,
			&time,
			&clauseID,
			&origin,
			&address,
			&topics[0],
			&topics[1],
			&topics[2],
			&topics[3],
			&topics[4],
			&data,
		); err != nil {
			return nil, err
		}
		event := &Event{
			Seq:      seq,
			Index:    index,
			Time:     time,
			ClauseID: thor.BytesToBytes32(clauseID),
			Origin:   thor.BytesToAddress(origin),
			Address:  thor.BytesToAddress(address),
			Data:     data,
		}
		for i, topic := range topics {
			if len(topic) > 0 {
				h := thor.BytesToBytes32(topic)
				event.Topics[i] = &h
			}
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (db *LogDB) execInTx(ctx context.Context, proc func(*sql.Tx) error) error {
	sqlTx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := proc(sqlTx); err != nil {
		_ = sqlTx.Rollback()
		return err
	}
	return sqlTx.Commit()
}

func topicValue(topic *thor.Bytes32) []byte {
	if topic == nil {
		return nil
	}
	return topic.Bytes()
}

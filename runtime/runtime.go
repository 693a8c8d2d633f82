// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"context"
	"errors"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/vechain/rewardpool/builtin"
	"github.com/vechain/rewardpool/builtin/pool/reverts"
	"github.com/vechain/rewardpool/log"
	"github.com/vechain/rewardpool/logdb"
	"github.com/vechain/rewardpool/state"
	"github.com/vechain/rewardpool/thor"
	"github.com/vechain/rewardpool/tx"
	"github.com/vechain/rewardpool/xenv"
)

var (
	logger = log.WithContext("pkg", "runtime")

	errInsufficientBalance = reverts.New("insufficient balance for transfer")

	// ErrNonceMismatch is returned for a signed clause which does not carry the next nonce of its origin.
	ErrNonceMismatch = errors.New("nonce mismatch")
)

// Runtime executes clauses against the committed state one at a time.
// A clause either commits all of its changes or none of them.
type Runtime struct {
	lock   sync.RWMutex
	stater *state.Stater
	logDB  *logdb.LogDB
}

// New create a Runtime object. logDB is optional, events are not indexed without it.
func New(stater *state.Stater, logDB *logdb.LogDB) *Runtime {
	return &Runtime{
		stater: stater,
		logDB:  logDB,
	}
}

func (rt *Runtime) LogDB() *logdb.LogDB { return rt.logDB }

// ExecuteClause executes clause sent by origin at the given time.
// A revert is reported by the receipt, the returned error is for failures of the node itself.
// The origin is trusted, use ExecuteSigned for clauses authorized by a signature.
func (rt *Runtime) ExecuteClause(ctx context.Context, origin thor.Address, clause *tx.Clause, blockTime uint64) (*tx.Receipt, error) {
	return rt.executeClause(ctx, origin, clause, blockTime, false)
}

// ExecuteSigned executes a clause whose signature recovered to origin.
// The clause nonce must be the next nonce of origin. It is consumed even if the clause
// reverts, so a signed clause is executed at most once.
func (rt *Runtime) ExecuteSigned(ctx context.Context, origin thor.Address, clause *tx.Clause, blockTime uint64) (*tx.Receipt, error) {
	return rt.executeClause(ctx, origin, clause, blockTime, true)
}

func (rt *Runtime) executeClause(ctx context.Context, origin thor.Address, clause *tx.Clause, blockTime uint64, signed bool) (*tx.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	rt.lock.Lock()
	defer rt.lock.Unlock()

	receipt := &tx.Receipt{
		ClauseID: clause.ID(origin),
		Origin:   origin,
		Time:     blockTime,
	}

	st := rt.stater.NewState()
	if signed {
		nonce, err := st.GetNonce(origin)
		if err != nil {
			return nil, err
		}
		if clause.Nonce() != nonce {
			return nil, pkgerrors.WithMessagef(ErrNonceMismatch, "want %d, got %d", nonce, clause.Nonce())
		}
	}

	output, err := rt.execute(st, origin, clause, blockTime, false)
	if err != nil {
		var revert *reverts.ErrRevert
		if !errors.As(err, &revert) {
			return nil, err
		}
		// changes are dropped along with the uncommitted state
		if signed {
			st = rt.stater.NewState()
			st.SetNonce(origin, clause.Nonce()+1)
			if err := st.Commit(); err != nil {
				return nil, pkgerrors.Wrap(err, "commit nonce")
			}
		}
		receipt.Reverted = true
		receipt.RevertReason = revert.Error()
		receipt.RevertData = revert.Bytes()

		logger.Debug("clause reverted", "id", receipt.ClauseID, "origin", origin, "reason", receipt.RevertReason)
		metricClauseCount().AddWithLabel(1, map[string]string{"result": "reverted"})
		return receipt, nil
	}

	if signed {
		st.SetNonce(origin, clause.Nonce()+1)
	}
	if err := st.Commit(); err != nil {
		return nil, pkgerrors.Wrap(err, "commit state")
	}
	receipt.Output = output

	if rt.logDB != nil {
		if err := rt.logDB.Insert(ctx, receipt); err != nil {
			// the state is committed already, a missing index entry must not fail the clause
			logger.Error("failed to index events", "id", receipt.ClauseID, "err", err)
		}
	}

	logger.Debug("clause executed", "id", receipt.ClauseID, "origin", origin, "events", len(output.Events))
	metricClauseCount().AddWithLabel(1, map[string]string{"result": "success"})
	metricClauseDuration().Observe(time.Since(start).Milliseconds())
	return receipt, nil
}

// Call executes clause in read-only mode on top of the committed state.
// Nothing is committed, reverts are returned as errors.
func (rt *Runtime) Call(origin thor.Address, clause *tx.Clause, blockTime uint64) (*tx.Output, error) {
	rt.lock.RLock()
	defer rt.lock.RUnlock()

	return rt.execute(rt.stater.NewState(), origin, clause, blockTime, true)
}

// View runs fn on a fresh state of the committed data. Changes made by fn are discarded.
func (rt *Runtime) View(fn func(st *state.State) error) error {
	rt.lock.RLock()
	defer rt.lock.RUnlock()

	return fn(rt.stater.NewState())
}

func (rt *Runtime) execute(st *state.State, origin thor.Address, clause *tx.Clause, blockTime uint64, readonly bool) (*tx.Output, error) {
	to := clause.To()
	method, err := builtin.FindNativeMethod(to, clause.Data())
	if err != nil {
		return nil, err
	}

	value := clause.Value()
	if value.Sign() < 0 {
		return nil, pkgerrors.New("negative clause value")
	}
	if value.Sign() > 0 {
		ok, err := st.Transfer(origin, to, value)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errInsufficientBalance
		}
	}

	env := xenv.New(
		method.ABI(),
		st,
		&xenv.BlockContext{Time: blockTime},
		&xenv.TransactionContext{ID: clause.ID(origin), Origin: origin},
		to,
		value,
		clause.Data(),
	)
	data, err := method.Invoke(env, readonly)
	if err != nil {
		return nil, err
	}
	return &tx.Output{
		Data:   data,
		Events: env.Events(),
	}, nil
}

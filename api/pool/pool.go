// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"math/big"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/api/utils"
	"github.com/vechain/rewardpool/builtin"
	"github.com/vechain/rewardpool/logdb"
	"github.com/vechain/rewardpool/runtime"
	"github.com/vechain/rewardpool/state"
	"github.com/vechain/rewardpool/thor"
	"github.com/vechain/rewardpool/tx"
)

// Clock returns the current unix time in seconds.
type Clock func() uint64

type Pool struct {
	rt      *runtime.Runtime
	signing *tx.Signing
	clock   Clock
}

// New creates the pool api. Requests must be signed for signing. A nil clock reads the system time.
func New(rt *runtime.Runtime, signing *tx.Signing, clock Clock) *Pool {
	if clock == nil {
		clock = func() uint64 { return uint64(time.Now().Unix()) }
	}
	return &Pool{rt, signing, clock}
}

// NewClause builds the clause a request to method executes. It is what the request signature covers.
func NewClause(method string, value *big.Int, nonce uint64) (*tx.Clause, error) {
	abiMethod, found := builtin.Pool.ABI.MethodByName(method)
	if !found {
		return nil, errors.Errorf("pool method %q not found", method)
	}
	input, err := abiMethod.EncodeInput()
	if err != nil {
		return nil, err
	}
	if value == nil {
		value = new(big.Int)
	}
	return tx.NewClause(builtin.Pool.Address).
		WithValue(value).
		WithData(input).
		WithNonce(nonce), nil
}

func (p *Pool) handleGetPool(w http.ResponseWriter, _ *http.Request) error {
	var summary *Summary
	err := p.rt.View(func(st *state.State) (err error) {
		summary, err = getSummary(st)
		return
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, summary)
}

func getSummary(st *state.State) (*Summary, error) {
	native := builtin.Pool.Native(st)
	name, err := native.Name()
	if err != nil {
		return nil, err
	}
	operator, err := native.Operator()
	if err != nil {
		return nil, err
	}
	total, err := native.TotalHolderDeposit()
	if err != nil {
		return nil, err
	}
	acc, err := native.AccRewardPerShare()
	if err != nil {
		return nil, err
	}
	last, err := native.LastRewardTime()
	if err != nil {
		return nil, err
	}
	return &Summary{
		Address:            native.Address(),
		Name:               name,
		Operator:           operator,
		Rewardable:         native.Rewardable(),
		TotalHolderDeposit: hexOrDecimal(total),
		AccRewardPerShare:  hexOrDecimal(acc),
		LastRewardTime:     last,
	}, nil
}

func (p *Pool) handleGetHolder(w http.ResponseWriter, req *http.Request) error {
	addr, err := thor.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}

	var holder *Holder
	err = p.rt.View(func(st *state.State) error {
		native := builtin.Pool.Native(st)
		balance, err := native.BalanceOf(addr)
		if err != nil {
			return err
		}
		pending, err := native.PendingReward(addr)
		if err != nil {
			return err
		}
		h, err := native.Holder(addr)
		if err != nil {
			return err
		}
		holder = &Holder{
			Address:    addr,
			Principal:  hexOrDecimal(h.Principal),
			RewardDebt: hexOrDecimal(h.RewardDebt),
			Pending:    hexOrDecimal(pending),
			Balance:    hexOrDecimal(balance),
		}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, holder)
}

func (p *Pool) handleGetWithdrawals(w http.ResponseWriter, req *http.Request) error {
	addr, err := thor.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	logDB := p.rt.LogDB()
	if logDB == nil {
		return utils.HTTPError(errors.New("event index disabled"), http.StatusServiceUnavailable)
	}

	withdrawSucceed, _ := builtin.Pool.ABI.EventByName("WithdrawSucceed")
	eventID := withdrawSucceed.ID()
	holderTopic := thor.BytesToBytes32(addr.Bytes())
	events, err := logDB.FilterEvents(req.Context(), &logdb.EventFilter{
		CriteriaSet: []*logdb.EventCriteria{{
			Address: &builtin.Pool.Address,
			Topics:  [5]*thor.Bytes32{&eventID, &holderTopic},
		}},
	})
	if err != nil {
		return err
	}

	withdrawals := make([]*Withdrawal, 0, len(events))
	for _, ev := range events {
		var amount *big.Int
		if err := withdrawSucceed.Decode(ev.Data, &amount); err != nil {
			return errors.WithMessage(err, "decode event")
		}
		withdrawals = append(withdrawals, &Withdrawal{
			Holder:   addr,
			Amount:   hexOrDecimal(amount),
			Time:     ev.Time,
			ClauseID: ev.ClauseID,
		})
	}
	return utils.WriteJSON(w, withdrawals)
}

// execute returns a handler that calls method as the signer of the request.
func (p *Pool) execute(method string) utils.HandlerFunc {
	if _, err := NewClause(method, nil, 0); err != nil {
		panic(err)
	}

	return func(w http.ResponseWriter, req *http.Request) error {
		var body Request
		if err := utils.ParseJSON(req.Body, &body); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "body"))
		}
		if len(body.Signature) == 0 {
			return utils.BadRequest(errors.New("signature: required"))
		}
		value := new(big.Int)
		if body.Value != nil {
			value = (*big.Int)(body.Value)
		}
		if value.Sign() < 0 {
			return utils.BadRequest(errors.New("value: negative"))
		}

		clause, err := NewClause(method, value, uint64(body.Nonce))
		if err != nil {
			return err
		}
		origin, err := p.signing.Origin(clause, body.Signature)
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, "signature"))
		}

		receipt, err := p.rt.ExecuteSigned(req.Context(), origin, clause, p.clock())
		if err != nil {
			if errors.Is(err, runtime.ErrNonceMismatch) {
				return utils.HTTPError(err, http.StatusConflict)
			}
			return err
		}
		return utils.WriteJSON(w, convertReceipt(receipt))
	}
}

func (p *Pool) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.MethodNotAllowedHandler = utils.MethodNotAllowedHandler()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /pool").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetPool))
	sub.Path("/holders/{address}").
		Methods(http.MethodGet).
		Name("GET /pool/holders/{address}").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetHolder))
	sub.Path("/holders/{address}/withdrawals").
		Methods(http.MethodGet).
		Name("GET /pool/holders/{address}/withdrawals").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetWithdrawals))
	sub.Path("/deposit").
		Methods(http.MethodPost).
		Name("POST /pool/deposit").
		HandlerFunc(utils.WrapHandlerFunc(p.execute("deposit")))
	sub.Path("/rewards").
		Methods(http.MethodPost).
		Name("POST /pool/rewards").
		HandlerFunc(utils.WrapHandlerFunc(p.execute("depositReward")))
	sub.Path("/withdraw").
		Methods(http.MethodPost).
		Name("POST /pool/withdraw").
		HandlerFunc(utils.WrapHandlerFunc(p.execute("withdraw")))
}

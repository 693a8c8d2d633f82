// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"math/big"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/api/utils"
	"github.com/vechain/rewardpool/builtin/pool/reverts"
	"github.com/vechain/rewardpool/runtime"
	"github.com/vechain/rewardpool/state"
	"github.com/vechain/rewardpool/thor"
	"github.com/vechain/rewardpool/tx"
)

type Accounts struct {
	rt    *runtime.Runtime
	clock func() uint64
}

// New creates the accounts api. A nil clock reads the system time.
func New(rt *runtime.Runtime, clock func() uint64) *Accounts {
	if clock == nil {
		clock = func() uint64 { return uint64(time.Now().Unix()) }
	}
	return &Accounts{rt, clock}
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := thor.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	var (
		balance *big.Int
		nonce   uint64
	)
	err = a.rt.View(func(st *state.State) (err error) {
		if balance, err = st.GetBalance(addr); err != nil {
			return
		}
		nonce, err = st.GetNonce(addr)
		return
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Account{
		Balance: (*math.HexOrDecimal256)(balance),
		Nonce:   math.HexOrDecimal64(nonce),
	})
}

func (a *Accounts) handleCallContract(w http.ResponseWriter, req *http.Request) error {
	callData := &CallData{}
	if err := utils.ParseJSON(req.Body, &callData); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	addr, err := thor.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	data, err := hexutil.Decode(callData.Data)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "data"))
	}
	clause := tx.NewClause(addr).WithData(data)
	if callData.Value != nil {
		if (*big.Int)(callData.Value).Sign() < 0 {
			return utils.BadRequest(errors.New("value: negative"))
		}
		clause = clause.WithValue((*big.Int)(callData.Value))
	}
	var caller thor.Address
	if callData.Caller != nil {
		caller = *callData.Caller
	}

	output, err := a.rt.Call(caller, clause, a.clock())
	if err != nil {
		if reverts.IsRevertErr(err) {
			return utils.WriteJSON(w, &CallResult{
				Data:     "0x",
				Events:   []*Event{},
				Reverted: true,
				VMError:  reverts.Reason(err),
			})
		}
		return err
	}
	return utils.WriteJSON(w, convertOutput(output))
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.MethodNotAllowedHandler = utils.MethodNotAllowedHandler()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
	sub.Path("/{address}").
		Methods(http.MethodPost).
		Name("POST /accounts/{address}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleCallContract))
}

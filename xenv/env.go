// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/abi"
	"github.com/vechain/rewardpool/builtin/pool/reverts"
	"github.com/vechain/rewardpool/state"
	"github.com/vechain/rewardpool/thor"
	"github.com/vechain/rewardpool/tx"
)

var (
	errWriteProtection = reverts.New("write protection")
	errNonPayable      = reverts.New("non-payable method")
)

// BlockContext carries the time the clause executes at.
type BlockContext struct {
	Time uint64
}

// TransactionContext transaction context.
type TransactionContext struct {
	ID     thor.Bytes32
	Origin thor.Address
}

type vmError struct {
	cause error
}

// Environment an env to execute native method.
type Environment struct {
	abi      *abi.Method
	state    *state.State
	blockCtx *BlockContext
	txCtx    *TransactionContext
	to       thor.Address
	value    *big.Int
	input    []byte
	events   tx.Events
}

// New create a new env.
func New(
	abi *abi.Method,
	state *state.State,
	blockCtx *BlockContext,
	txCtx *TransactionContext,
	to thor.Address,
	value *big.Int,
	input []byte,
) *Environment {
	if value == nil {
		value = new(big.Int)
	}
	return &Environment{
		abi:      abi,
		state:    state,
		blockCtx: blockCtx,
		txCtx:    txCtx,
		to:       to,
		value:    value,
		input:    input,
	}
}

func (env *Environment) State() *state.State                     { return env.state }
func (env *Environment) TransactionContext() *TransactionContext { return env.txCtx }
func (env *Environment) BlockContext() *BlockContext             { return env.blockCtx }
func (env *Environment) Caller() thor.Address                    { return env.txCtx.Origin }
func (env *Environment) To() thor.Address                        { return env.to }
func (env *Environment) Value() *big.Int                         { return new(big.Int).Set(env.value) }
func (env *Environment) Events() tx.Events                       { return env.events }

func (env *Environment) ParseArgs(val any) {
	if err := env.abi.DecodeInput(env.input, val); err != nil {
		env.Stop(reverts.New(errors.WithMessage(err, "decode native input").Error()))
	}
}

func (env *Environment) Require(cond bool, err error) {
	if !cond {
		env.Stop(err)
	}
}

func (env *Environment) Log(abi *abi.Event, address thor.Address, topics []thor.Bytes32, args ...any) {
	data, err := abi.Encode(args...)
	if err != nil {
		panic(errors.WithMessage(err, "encode native event"))
	}

	ts := make([]thor.Bytes32, 0, len(topics)+1)
	ts = append(ts, abi.ID())
	ts = append(ts, topics...)
	env.events = append(env.events, &tx.Event{
		Address: address,
		Topics:  ts,
		Data:    data,
	})
}

// Stop aborts the native method with err.
func (env *Environment) Stop(err error) {
	panic(&vmError{err})
}

// Call returns a function which runs proc and encodes its output.
// Errors raised by Stop are returned as they are, any other error raised by a panic is
// returned wrapped. Non error panics propagate.
func (env *Environment) Call(proc func(env *Environment) []any, readonly bool) func() ([]byte, error) {
	return func() (data []byte, err error) {
		if readonly && !env.abi.Const() {
			return nil, errWriteProtection
		}
		if env.value.Sign() != 0 && !env.abi.Payable() {
			return nil, errNonPayable
		}

		defer func() {
			if e := recover(); e != nil {
				switch rec := e.(type) {
				case *vmError:
					data, err = nil, rec.cause
				case error:
					data, err = nil, errors.WithMessage(rec, "native")
				default:
					panic(e)
				}
			}
		}()
		output := proc(env)
		data, err = env.abi.EncodeOutput(output...)
		if err != nil {
			panic(errors.WithMessage(err, "encode native output"))
		}
		return
	}
}

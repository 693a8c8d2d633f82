// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/rewardpool/thor"
)

// String stores a string of arbitrary length rlp encoded in a single slot.
type String struct {
	context *Context
	pos     thor.Bytes32
}

func NewString(context *Context, pos thor.Bytes32) *String {
	return &String{context: context, pos: pos}
}

func (s *String) Get() (str string, err error) {
	err = s.context.state.DecodeStorage(s.context.address, s.pos, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &str)
	})
	return
}

func (s *String) Set(str string) error {
	return s.context.state.EncodeStorage(s.context.address, s.pos, func() ([]byte, error) {
		if str == "" {
			return nil, nil
		}
		return rlp.EncodeToBytes(str)
	})
}

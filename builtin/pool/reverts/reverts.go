// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"encoding/binary"
	"errors"
)

// Rejections of pool calls. Each aborts the call with no state change.
var (
	ErrUnauthorized     = New("Ownable: caller is not the owner")
	ErrZeroRewardAmount = New("Not enough reward value")
	ErrCooldownActive   = New("Please wait a week")
	ErrNoSuchHolder     = New("No such a holder")
	ErrNoStakers        = New("No holders to reward")
	ErrOverflow         = New("Arithmetic overflow")
	ErrAlreadyCreated   = New("Pool already created")
)

// errorSelector is the 4-byte selector of Error(string).
var errorSelector = []byte{0x08, 0xc3, 0x79, 0xa0}

type ErrRevert struct {
	message string
}

func New(message string) *ErrRevert {
	return &ErrRevert{
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

// Bytes returns the message abi encoded as Error(string), the way revert data is returned to callers.
func (e *ErrRevert) Bytes() []byte {
	if e == nil {
		return nil
	}
	msg := []byte(e.message)
	padded := (len(msg) + 31) / 32 * 32

	encoded := make([]byte, 4+32+32+padded)
	copy(encoded, errorSelector)
	binary.BigEndian.PutUint64(encoded[4+24:], 32)
	binary.BigEndian.PutUint64(encoded[4+32+24:], uint64(len(msg)))
	copy(encoded[4+64:], msg)
	return encoded
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// Reason extracts the revert message, or an empty string if err is not a revert.
func Reason(err error) string {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.message
	}
	return ""
}

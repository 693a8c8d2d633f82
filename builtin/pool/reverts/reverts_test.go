// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"encoding/hex"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestIsRevertErr(t *testing.T) {
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr("not an error"))
	assert.False(t, IsRevertErr(errors.New("plain")))
	assert.True(t, IsRevertErr(ErrNoSuchHolder))
	assert.True(t, IsRevertErr(errors.WithMessage(ErrCooldownActive, "inject reward")))
}

func TestSentinelsAreDistinguishable(t *testing.T) {
	wrapped := errors.Wrap(ErrUnauthorized, "deposit reward")
	assert.True(t, errors.Is(wrapped, ErrUnauthorized))
	assert.False(t, errors.Is(wrapped, ErrNoStakers))
	assert.Equal(t, "Ownable: caller is not the owner", Reason(wrapped))
	assert.Equal(t, "", Reason(errors.New("plain")))
}

func TestBytes(t *testing.T) {
	data := ErrNoSuchHolder.Bytes()
	expected := "08c379a0" +
		"0000000000000000000000000000000000000000000000000000000000000020" +
		"0000000000000000000000000000000000000000000000000000000000000010" +
		hex.EncodeToString([]byte("No such a holder")) + "00000000000000000000000000000000"
	assert.Equal(t, expected, hex.EncodeToString(data))

	var nilErr *ErrRevert
	assert.Nil(t, nilErr.Bytes())
}

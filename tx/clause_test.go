// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/rewardpool/thor"
)

func TestClause(t *testing.T) {
	to := thor.BytesToAddress([]byte("to"))
	c := NewClause(to)
	assert.Equal(t, to, c.To())
	assert.Equal(t, 0, c.Value().Sign())
	assert.Empty(t, c.Data())

	value := big.NewInt(10)
	c2 := c.WithValue(value).WithData([]byte{1, 2})
	value.SetInt64(20)
	assert.Equal(t, "10", c2.Value().String())
	assert.Equal(t, []byte{1, 2}, c2.Data())
	// the original is untouched
	assert.Equal(t, 0, c.Value().Sign())

	// returned values are copies
	c2.Data()[0] = 9
	assert.Equal(t, []byte{1, 2}, c2.Data())
}

func TestClauseID(t *testing.T) {
	to := thor.BytesToAddress([]byte("to"))
	origin := thor.BytesToAddress([]byte("origin"))
	c := NewClause(to).WithValue(big.NewInt(1))

	assert.Equal(t, c.ID(origin), c.ID(origin))
	assert.NotEqual(t, c.ID(origin), c.ID(to))
	assert.NotEqual(t, c.ID(origin), c.WithNonce(1).ID(origin))
	assert.NotEqual(t, c.ID(origin), c.WithValue(big.NewInt(2)).ID(origin))
}

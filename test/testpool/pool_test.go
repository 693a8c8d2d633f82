// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package testpool

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/rewardpool/builtin"
	"github.com/vechain/rewardpool/genesis"
	"github.com/vechain/rewardpool/test/datagen"
	"github.com/vechain/rewardpool/thor"
)

func TestPoolRandomDeposits(t *testing.T) {
	p, err := NewDefault()
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, genesis.DevConfig().LaunchTime, p.Now())
	assert.Equal(t, genesis.NewDevnet().ID(), p.Genesis().ID())

	total := new(big.Int)
	for _, acc := range p.Accounts() {
		amount := datagen.RandEther(100)
		_, err := p.Execute(acc.Address, amount, "deposit")
		require.NoError(t, err)
		total.Add(total, amount)
	}

	balance, err := p.Balance(builtin.Pool.Address)
	require.NoError(t, err)
	assert.Equal(t, total.String(), balance.String())

	p.Advance(thor.RewardCooldown)
	_, err = p.Execute(p.Accounts()[0].Address, thor.Ether, "depositReward")
	require.NoError(t, err)

	// a second injection within the cooldown reverts
	receipt, err := p.Execute(p.Accounts()[0].Address, thor.Ether, "depositReward")
	assert.ErrorContains(t, err, "depositReward reverted")
	require.NotNil(t, receipt)
	assert.True(t, receipt.Reverted)

	_, err = p.Execute(datagen.RandomAddress(), nil, "unknown")
	assert.Error(t, err)
}

func TestPoolSigning(t *testing.T) {
	p, err := NewDefault()
	require.NoError(t, err)
	defer p.Close()

	acc := p.Accounts()[1]
	clause, err := Clause(thor.Ether, "deposit")
	require.NoError(t, err)
	sig, err := p.Signing().Sign(clause, acc.PrivateKey)
	require.NoError(t, err)
	origin, err := p.Signing().Origin(clause, sig)
	require.NoError(t, err)
	assert.Equal(t, acc.Address, origin)

	_, err = p.Runtime().ExecuteSigned(context.Background(), origin, clause, p.Now())
	require.NoError(t, err)
	nonce, err := p.Nonce(acc.Address)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), nonce)
}

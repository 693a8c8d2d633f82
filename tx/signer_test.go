// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/rewardpool/thor"
)

func TestSigning(t *testing.T) {
	pk, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := thor.Address(crypto.PubkeyToAddress(pk.PublicKey))

	genesisID := thor.Blake2b([]byte("genesis"))
	signing := NewSigning(genesisID)
	clause := NewClause(thor.BytesToAddress([]byte("pool"))).WithValue(big.NewInt(10)).WithNonce(3)

	sig, err := signing.Sign(clause, pk)
	require.NoError(t, err)
	assert.Len(t, sig, crypto.SignatureLength)

	origin, err := signing.Origin(clause, sig)
	require.NoError(t, err)
	assert.Equal(t, signer, origin)

	// cached
	origin, err = signing.Origin(clause, sig)
	require.NoError(t, err)
	assert.Equal(t, signer, origin)

	t.Run("covers every field", func(t *testing.T) {
		for _, changed := range []*Clause{
			clause.WithValue(big.NewInt(11)),
			clause.WithNonce(4),
			clause.WithData([]byte{1}),
		} {
			origin, err := signing.Origin(changed, sig)
			if err == nil {
				assert.NotEqual(t, signer, origin)
			}
		}
	})

	t.Run("bound to genesis", func(t *testing.T) {
		other := NewSigning(thor.Blake2b([]byte("other genesis")))
		origin, err := other.Origin(clause, sig)
		if err == nil {
			assert.NotEqual(t, signer, origin)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := signing.Origin(clause, sig[:64])
		assert.ErrorIs(t, err, ErrInvalidSignature)

		bad := append([]byte(nil), sig...)
		bad[64] = 9
		_, err = signing.Origin(clause, bad)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})
}

func TestSigningHash(t *testing.T) {
	c := NewClause(thor.BytesToAddress([]byte("pool")))
	assert.Equal(t, c.SigningHash(), c.WithNonce(0).SigningHash())
	assert.NotEqual(t, c.SigningHash(), c.WithNonce(1).SigningHash())
	assert.Equal(t, uint64(1), c.WithNonce(1).Nonce())

	// the origin is not part of the signing hash
	assert.NotEqual(t, c.SigningHash(), c.ID(thor.Address{}))
}

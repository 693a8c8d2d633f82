// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/crypto"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/thor"
)

const signerCacheSize = 1024

// ErrInvalidSignature is returned when no origin can be recovered from a signature.
var ErrInvalidSignature = errors.New("invalid signature")

// Signing signs clauses and recovers their origin.
// Signing hashes are masked with the genesis id, so a signature is only valid on one pool.
type Signing struct {
	genesisID thor.Bytes32
	cache     *lru.Cache
}

// NewSigning create a signing object for the pool launched with genesisID.
func NewSigning(genesisID thor.Bytes32) *Signing {
	cache, _ := lru.New(signerCacheSize)
	return &Signing{genesisID, cache}
}

func (s *Signing) signingHash(clause *Clause) thor.Bytes32 {
	hash := clause.SigningHash()
	for i := range hash {
		hash[i] ^= s.genesisID[i]
	}
	return hash
}

// Sign signs clause with the given private key.
func (s *Signing) Sign(clause *Clause, pk *ecdsa.PrivateKey) ([]byte, error) {
	hash := s.signingHash(clause)
	sig, err := crypto.Sign(hash[:], pk)
	if err != nil {
		return nil, errors.Wrap(err, "sign clause")
	}
	return sig, nil
}

// MustSign signs clause and panics on failure.
func (s *Signing) MustSign(clause *Clause, pk *ecdsa.PrivateKey) []byte {
	sig, err := s.Sign(clause, pk)
	if err != nil {
		panic(err)
	}
	return sig
}

// Origin recovers the address which signed clause.
func (s *Signing) Origin(clause *Clause, sig []byte) (thor.Address, error) {
	hash := s.signingHash(clause)
	key := thor.Blake2b(hash[:], sig)
	if addr, ok := s.cache.Get(key); ok {
		return addr.(thor.Address), nil
	}

	if len(sig) != crypto.SignatureLength {
		return thor.Address{}, ErrInvalidSignature
	}
	pub, err := crypto.SigToPub(hash[:], sig)
	if err != nil {
		return thor.Address{}, errors.WithMessage(ErrInvalidSignature, err.Error())
	}
	addr := thor.Address(crypto.PubkeyToAddress(*pub))
	s.cache.Add(key, addr)
	return addr, nil
}

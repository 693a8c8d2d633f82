// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/rewardpool/thor"
)

type clauseBody struct {
	To    thor.Address
	Value *big.Int
	Data  []byte
	Nonce uint64
}

// Clause is the basic execution unit: a call to a contract, optionally carrying value.
type Clause struct {
	body clauseBody
}

// NewClause create a new clause instance.
func NewClause(to thor.Address) *Clause {
	return &Clause{
		clauseBody{
			to,
			&big.Int{},
			nil,
			0,
		},
	}
}

// WithValue create a new clause copy with value changed.
func (c *Clause) WithValue(value *big.Int) *Clause {
	newClause := *c
	newClause.body.Value = new(big.Int).Set(value)
	return &newClause
}

// WithData create a new clause copy with data changed.
func (c *Clause) WithData(data []byte) *Clause {
	newClause := *c
	newClause.body.Data = append([]byte(nil), data...)
	return &newClause
}

// WithNonce create a new clause copy with nonce changed.
// Signed clauses carry the next nonce of their origin.
func (c *Clause) WithNonce(nonce uint64) *Clause {
	newClause := *c
	newClause.body.Nonce = nonce
	return &newClause
}

// To returns 'To' address.
func (c *Clause) To() thor.Address {
	return c.body.To
}

// Value returns 'Value'.
func (c *Clause) Value() *big.Int {
	return new(big.Int).Set(c.body.Value)
}

// Data returns 'Data'.
func (c *Clause) Data() []byte {
	return append([]byte(nil), c.body.Data...)
}

// Nonce returns 'Nonce'.
func (c *Clause) Nonce() uint64 {
	return c.body.Nonce
}

// SigningHash returns the hash an origin signs to authorize the clause.
func (c *Clause) SigningHash() thor.Bytes32 {
	data, err := rlp.EncodeToBytes(&c.body)
	if err != nil {
		panic(err)
	}
	return thor.Blake2b(data)
}

// ID returns the hash of the clause sent by origin.
func (c *Clause) ID(origin thor.Address) thor.Bytes32 {
	data, err := rlp.EncodeToBytes(&c.body)
	if err != nil {
		panic(err)
	}
	return thor.Blake2b(origin[:], data)
}

func (c *Clause) String() string {
	return fmt.Sprintf(`
		(To:	%v
		 Value:	%v
		 Data:	0x%x
		 Nonce:	%v)`, c.body.To, c.body.Value, c.body.Data, c.body.Nonce)
}

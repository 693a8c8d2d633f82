// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/rewardpool/thor"
)

// CustomGenesis is user customized genesis
type CustomGenesis struct {
	LaunchTime uint64       `json:"launchTime" yaml:"launchTime"`
	Name       string       `json:"name" yaml:"name"`
	Operator   thor.Address `json:"operator" yaml:"operator"`
	Accounts   []Account    `json:"accounts" yaml:"accounts"`
	Deposits   []Deposit    `json:"deposits" yaml:"deposits"`
}

// Account is the account will set to the genesis state
type Account struct {
	Address thor.Address     `json:"address" yaml:"address"`
	Balance *HexOrDecimal256 `json:"balance" yaml:"balance"`
}

// Deposit is a deposit made into the pool at launch, paid from the holder's genesis balance.
type Deposit struct {
	Holder thor.Address     `json:"holder" yaml:"holder"`
	Amount *HexOrDecimal256 `json:"amount" yaml:"amount"`
}

// LoadCustomGenesis reads a genesis file. JSON is accepted as it is a subset of YAML.
func LoadCustomGenesis(path string) (*CustomGenesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}
	var gen CustomGenesis
	if err := yaml.Unmarshal(data, &gen); err != nil {
		return nil, errors.Wrap(err, "decode genesis file")
	}
	return &gen, nil
}

// Validate checks the genesis is able to launch a pool.
func (gen *CustomGenesis) Validate() error {
	if gen.Name == "" {
		return errors.New("pool name required")
	}
	if gen.Operator.IsZero() {
		return errors.New("pool operator required")
	}
	for _, acc := range gen.Accounts {
		if acc.Balance != nil && (*big.Int)(acc.Balance).Sign() < 0 {
			return errors.Errorf("negative balance of %v", acc.Address)
		}
	}
	for _, dep := range gen.Deposits {
		if dep.Amount == nil || (*big.Int)(dep.Amount).Sign() <= 0 {
			return errors.Errorf("deposit of %v must be positive", dep.Holder)
		}
	}
	return nil
}

// HexOrDecimal256 marshals big.Int as hex or decimal.
// Copied from go-ethereum/common/math and implement json. Marshaler
type HexOrDecimal256 math.HexOrDecimal256

// NewHexOrDecimal256 wraps a copy of v.
func NewHexOrDecimal256(v *big.Int) *HexOrDecimal256 {
	return (*HexOrDecimal256)(new(big.Int).Set(v))
}

// Int returns the value as big.Int.
func (i *HexOrDecimal256) Int() *big.Int {
	if i == nil {
		return new(big.Int)
	}
	return new(big.Int).Set((*big.Int)(i))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *HexOrDecimal256) UnmarshalText(input []byte) error {
	bigint, ok := math.ParseBig256(string(input))
	if !ok {
		return fmt.Errorf("invalid hex or decimal integer %q", input)
	}
	*i = HexOrDecimal256(*bigint)
	return nil
}

// UnmarshalYAML implements the yaml.Unmarshaler interface, numbers may be quoted or not.
func (i *HexOrDecimal256) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar integer", node.Line)
	}
	return i.UnmarshalText([]byte(node.Value))
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (i *HexOrDecimal256) UnmarshalJSON(input []byte) error {
	var hex string
	if err := json.Unmarshal(input, &hex); err != nil {
		if err = (*big.Int)(i).UnmarshalJSON(input); err != nil {
			return err
		}
		return nil
	}
	return i.UnmarshalText([]byte(hex))
}

// MarshalJSON implements the json.Marshaler interface.
func (i HexOrDecimal256) MarshalJSON() ([]byte, error) {
	decimal256 := math.HexOrDecimal256(i)
	text, err := decimal256.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

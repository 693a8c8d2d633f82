// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"fmt"

	"github.com/vechain/rewardpool/abi"
	"github.com/vechain/rewardpool/builtin/gen"
	"github.com/vechain/rewardpool/thor"
)

type contract struct {
	name    string
	Address thor.Address
	ABI     *abi.ABI
}

func mustLoadContract(name string) *contract {
	data := gen.MustABI(name)
	abi, err := abi.New(data)
	if err != nil {
		panic(fmt.Errorf("load ABI for '%s': %w", name, err))
	}

	return &contract{
		name,
		thor.CreateContractAddress(name),
		abi,
	}
}

func (c *contract) mustMethod(name string) *abi.Method {
	method, found := c.ABI.MethodByName(name)
	if !found {
		panic(fmt.Errorf("method '%s' not found in ABI of '%s'", name, c.name))
	}
	return method
}

func (c *contract) mustEvent(name string) *abi.Event {
	event, found := c.ABI.EventByName(name)
	if !found {
		panic(fmt.Errorf("event '%s' not found in ABI of '%s'", name, c.name))
	}
	return event
}

// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/abi"
	"github.com/vechain/rewardpool/builtin/pool/reverts"
	"github.com/vechain/rewardpool/thor"
	"github.com/vechain/rewardpool/xenv"
)

var errMethodNotFound = reverts.New("method not found")

type methodKey struct {
	thor.Address
	abi.MethodID
}

// NativeMethod is a contract method implemented in Go.
type NativeMethod struct {
	method *abi.Method
	run    func(env *xenv.Environment) []any
}

var nativeMethods = make(map[methodKey]*NativeMethod)

// ABI returns the abi of the method.
func (n *NativeMethod) ABI() *abi.Method {
	return n.method
}

// Invoke runs the method inside env and returns its abi encoded output.
func (n *NativeMethod) Invoke(env *xenv.Environment, readonly bool) ([]byte, error) {
	return env.Call(n.run, readonly)()
}

// FindNativeMethod resolves the method that input calls on contract to.
func FindNativeMethod(to thor.Address, input []byte) (*NativeMethod, error) {
	id, err := abi.ExtractMethodID(input)
	if err != nil {
		return nil, reverts.New(err.Error())
	}
	if m, found := nativeMethods[methodKey{to, id}]; found {
		return m, nil
	}
	return nil, errors.WithMessagef(errMethodNotFound, "%v on %v", id, to)
}

func (c *contract) impl(name string, run func(env *xenv.Environment) []any) {
	method := c.mustMethod(name)
	nativeMethods[methodKey{c.Address, method.ID()}] = &NativeMethod{method, run}
}

// must stops env with err. Reverts abort the call, other errors are failures of the node.
func must(env *xenv.Environment, err error) {
	if err == nil {
		return
	}
	if reverts.IsRevertErr(err) {
		env.Stop(err)
	}
	panic(err)
}

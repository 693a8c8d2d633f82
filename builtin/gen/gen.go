// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gen

import (
	"embed"
)

//go:embed *.abi.json
var fs embed.FS

// MustABI returns the abi json of the named contract.
func MustABI(name string) []byte {
	data, err := fs.ReadFile(name + ".abi.json")
	if err != nil {
		panic(err)
	}
	return data
}

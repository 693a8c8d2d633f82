// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/thor"
)

type Key interface {
	Bytes() []byte
}

var (
	ErrKeyExists   = errors.New("mapping: key already exists")
	ErrKeyNotFound = errors.New("mapping: key not found")
)

// Mapping is a key/value storage abstraction for built-in contracts, similar to the mapping in Solidity.
// Values are rlp encoded at blake2b(key, basePos).
type Mapping[K Key, V any] struct {
	context *Context
	basePos thor.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos thor.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

func (m *Mapping[K, V]) position(key K) thor.Bytes32 {
	return thor.Blake2b(key.Bytes(), m.basePos.Bytes())
}

// Get returns the value of key. Pointer values are allocated even when the key is absent.
func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	_, value, err = m.get(key)
	return
}

// Exists returns whether a value is stored for key.
func (m *Mapping[K, V]) Exists(key K) (bool, error) {
	exists, _, err := m.get(key)
	return exists, err
}

func (m *Mapping[K, V]) get(key K) (exists bool, value V, err error) {
	err = m.context.state.DecodeStorage(m.context.address, m.position(key), func(raw []byte) error {
		if reflect.ValueOf(value).Kind() == reflect.Ptr {
			value = reflect.New(reflect.TypeOf(value).Elem()).Interface().(V)
		}
		if len(raw) == 0 {
			return nil
		}
		exists = true
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

// Insert stores value for a key which must not exist yet.
func (m *Mapping[K, V]) Insert(key K, value V) error {
	exists, err := m.Exists(key)
	if err != nil {
		return err
	}
	if exists {
		return ErrKeyExists
	}
	return m.set(key, value)
}

// Update overwrites the value of an existing key.
func (m *Mapping[K, V]) Update(key K, value V) error {
	exists, err := m.Exists(key)
	if err != nil {
		return err
	}
	if !exists {
		return ErrKeyNotFound
	}
	return m.set(key, value)
}

// Delete removes key. Deleting an absent key is a no-op.
func (m *Mapping[K, V]) Delete(key K) {
	m.context.state.SetRawStorage(m.context.address, m.position(key), nil)
}

func (m *Mapping[K, V]) set(key K, value V) error {
	return m.context.state.EncodeStorage(m.context.address, m.position(key), func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

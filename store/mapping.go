// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package store

import (
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
)

// Mapping is a key/value storage abstraction, similar to the mapping in Solidity.
// Values are stored RLP encoded at positions derived from the base slot and key.
type Mapping[K Key, V any] struct {
	context *Context
	base    []byte
}

// NewMapping creates a mapping rooted at the named base slot.
func NewMapping[K Key, V any](context *Context, base string) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, base: []byte(base)}
}

// Get returns the stored value, or the zero value if the key is absent.
// Pointer typed values are allocated so callers never see a nil record.
func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	if reflect.ValueOf(&value).Elem().Kind() == reflect.Ptr {
		value = reflect.New(reflect.TypeOf(value).Elem()).Interface().(V)
	}
	raw, err := m.context.store.Get(m.context.position(m.base, key.Bytes()))
	if err != nil {
		if m.context.store.IsNotFound(err) {
			return value, nil
		}
		return value, errors.Wrap(err, "mapping get")
	}
	if len(raw) == 0 {
		return value, nil
	}
	if err := rlp.DecodeBytes(raw, &value); err != nil {
		return value, errors.Wrap(err, "mapping decode")
	}
	return value, nil
}

// Set stores the value under the key.
func (m *Mapping[K, V]) Set(key K, value V) error {
	raw, err := rlp.EncodeToBytes(value)
	if err != nil {
		return errors.Wrap(err, "mapping encode")
	}
	if err := m.context.store.Put(m.context.position(m.base, key.Bytes()), raw); err != nil {
		return errors.Wrap(err, "mapping put")
	}
	return nil
}

// Delete removes the record of the key.
func (m *Mapping[K, V]) Delete(key K) error {
	if err := m.context.store.Delete(m.context.position(m.base, key.Bytes())); err != nil {
		return errors.Wrap(err, "mapping delete")
	}
	return nil
}

// Has returns whether a record exists for the key.
func (m *Mapping[K, V]) Has(key K) (bool, error) {
	ok, err := m.context.store.Has(m.context.position(m.base, key.Bytes()))
	if err != nil {
		return false, errors.Wrap(err, "mapping has")
	}
	return ok, nil
}

// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package store provides typed storage helpers over a kv store, similar to
// declaring mappings and value slots in a smart contract.
package store

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/vechain/auditmarket/kv"
)

// Key is implemented by types usable as mapping keys.
type Key interface {
	Bytes() []byte
}

// Uint64Key adapts a plain uint64 to the Key interface.
type Uint64Key uint64

// Bytes returns the big endian representation of the key.
func (k Uint64Key) Bytes() []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(k))
	return b[:]
}

// Context scopes storage positions of one logical contract to a namespace.
type Context struct {
	store kv.GetPutter
	ns    []byte
}

// NewContext creates a context over the given store.
// Positions derived from distinct namespaces never collide.
func NewContext(store kv.GetPutter, namespace string) *Context {
	return &Context{store: store, ns: []byte(namespace)}
}

// Store returns the underlying store.
func (c *Context) Store() kv.GetPutter {
	return c.store
}

func (c *Context) position(elems ...[]byte) []byte {
	data := make([][]byte, 0, len(elems)+1)
	data = append(data, c.ns)
	data = append(data, elems...)
	return crypto.Keccak256(data...)
}

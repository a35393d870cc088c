// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package store

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Uint64 is a wrapper for storage and retrieval of a single uint64 value,
// similar to storing an integer in a smart contract slot.
type Uint64 struct {
	context *Context
	pos     []byte
}

// NewUint64 creates a uint64 slot at the named position.
func NewUint64(context *Context, name string) *Uint64 {
	return &Uint64{context: context, pos: context.position([]byte(name))}
}

// Get returns the slot value, zero if never set.
func (u *Uint64) Get() (uint64, error) {
	raw, err := u.context.store.Get(u.pos)
	if err != nil {
		if u.context.store.IsNotFound(err) {
			return 0, nil
		}
		return 0, errors.Wrap(err, "slot get")
	}
	if len(raw) != 8 {
		return 0, nil
	}
	return binary.BigEndian.Uint64(raw), nil
}

// Set stores the slot value.
func (u *Uint64) Set(value uint64) error {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], value)
	if err := u.context.store.Put(u.pos, b[:]); err != nil {
		return errors.Wrap(err, "slot put")
	}
	return nil
}

// Inc increments the slot and returns the new value.
func (u *Uint64) Inc() (uint64, error) {
	v, err := u.Get()
	if err != nil {
		return 0, err
	}
	v++
	if err := u.Set(v); err != nil {
		return 0, err
	}
	return v, nil
}

// Dec decrements the slot, stopping at zero.
func (u *Uint64) Dec() (uint64, error) {
	v, err := u.Get()
	if err != nil {
		return 0, err
	}
	if v > 0 {
		v--
	}
	if err := u.Set(v); err != nil {
		return 0, err
	}
	return v, nil
}

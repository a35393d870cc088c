// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package audit defines primitive types shared across the audit market.
package audit

import (
	"encoding/binary"
	"fmt"
)

// Account is a numeric account identity. Zero is reserved and means "no account".
type Account uint64

// Bytes returns the big endian representation of the account id.
func (a Account) Bytes() []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(a))
	return b[:]
}

// IsZero returns whether the account is the reserved zero id.
func (a Account) IsZero() bool {
	return a == 0
}

func (a Account) String() string {
	return fmt.Sprintf("acc:%d", uint64(a))
}

// RequestID identifies an audit request. Zero is reserved and means "no request".
type RequestID uint64

// Bytes returns the big endian representation of the request id.
func (id RequestID) Bytes() []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(id))
	return b[:]
}

// IsZero returns whether the id is the reserved zero id.
func (id RequestID) IsZero() bool {
	return id == 0
}

func (id RequestID) String() string {
	return fmt.Sprintf("req:%d", uint64(id))
}

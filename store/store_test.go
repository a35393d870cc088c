// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package store

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/auditmarket/kv"
)

type record struct {
	Amount *big.Int
	Flag   bool
	Block  uint32
}

func newTestContext(t *testing.T) *Context {
	db, err := kv.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewContext(db, "test")
}

func TestMappingRoundTrip(t *testing.T) {
	ctx := newTestContext(t)
	m := NewMapping[Uint64Key, *record](ctx, "records")

	err := m.Set(1, &record{Amount: big.NewInt(100), Flag: true, Block: 7})
	require.NoError(t, err)

	got, err := m.Get(1)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100), got.Amount)
	assert.True(t, got.Flag)
	assert.Equal(t, uint32(7), got.Block)
}

func TestMappingAbsentKey(t *testing.T) {
	ctx := newTestContext(t)
	m := NewMapping[Uint64Key, *record](ctx, "records")

	got, err := m.Get(42)
	require.NoError(t, err)
	require.NotNil(t, got, "pointer values are allocated for absent keys")
	assert.False(t, got.Flag)

	has, err := m.Has(42)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestMappingDelete(t *testing.T) {
	ctx := newTestContext(t)
	m := NewMapping[Uint64Key, uint64](ctx, "values")

	require.NoError(t, m.Set(1, 99))
	has, err := m.Has(1)
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, m.Delete(1))
	has, err = m.Has(1)
	require.NoError(t, err)
	assert.False(t, has)

	got, err := m.Get(1)
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestNamespaceIsolation(t *testing.T) {
	db, err := kv.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	a := NewMapping[Uint64Key, uint64](NewContext(db, "a"), "values")
	b := NewMapping[Uint64Key, uint64](NewContext(db, "b"), "values")

	require.NoError(t, a.Set(1, 11))
	require.NoError(t, b.Set(1, 22))

	got, err := a.Get(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(11), got)

	got, err = b.Get(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(22), got)
}

func TestUint64Slot(t *testing.T) {
	ctx := newTestContext(t)
	slot := NewUint64(ctx, "counter")

	v, err := slot.Get()
	require.NoError(t, err)
	assert.Zero(t, v)

	v, err = slot.Inc()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)

	v, err = slot.Inc()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), v)

	v, err = slot.Dec()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)

	require.NoError(t, slot.Set(0))
	v, err = slot.Dec()
	require.NoError(t, err)
	assert.Zero(t, v, "decrement floors at zero")
}

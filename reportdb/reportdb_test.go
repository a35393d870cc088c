// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reportdb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *ReportDB {
	db, err := NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPutAndGet(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.Put(1, []byte("findings"), 10))

	payload, err := db.Get(1)
	require.NoError(t, err)
	assert.Equal(t, []byte("findings"), payload)

	has, err := db.Has(1)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestGetMissing(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Get(42)
	assert.True(t, IsErrNotFound(err))

	has, err := db.Has(42)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestOverwrite(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.Put(1, []byte("v1"), 10))
	require.NoError(t, db.Put(1, []byte("v2"), 11))

	payload, err := db.Get(1)
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), payload)
}

func TestPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.db")

	db, err := New(path)
	require.NoError(t, err)
	require.NoError(t, db.Put(1, []byte("findings"), 10))
	require.NoError(t, db.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer reopened.Close()

	payload, err := reopened.Get(1)
	require.NoError(t, err)
	assert.Equal(t, []byte("findings"), payload)
	assert.Equal(t, path, reopened.Path())
}

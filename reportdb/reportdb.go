// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reportdb persists raw report payloads outside the core state.
// Payloads are opaque to the market; nothing here assumes a format.
package reportdb

import (
	"database/sql"

	lru "github.com/hashicorp/golang-lru"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/auditmarket/audit"
)

const reportTableSchema = `CREATE TABLE IF NOT EXISTS report (
	requestID INTEGER PRIMARY KEY,
	block INTEGER NOT NULL,
	payload BLOB
);`

const cacheSize = 512

var errNotFound = errors.New("report not found")

// IsErrNotFound reports whether a lookup missed.
func IsErrNotFound(err error) bool {
	return errors.Cause(err) == errNotFound
}

// ReportDB stores report payloads in sqlite with an LRU read cache.
type ReportDB struct {
	path  string
	db    *sql.DB
	cache *lru.Cache
}

// New creates or opens the report db at the given path.
func New(path string) (*ReportDB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "open report db")
	}
	if _, err := db.Exec(reportTableSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create report schema")
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &ReportDB{path: path, db: db, cache: cache}, nil
}

// NewMem creates a report db in ram.
func NewMem() (*ReportDB, error) {
	return New(":memory:")
}

// Close closes the report db.
func (r *ReportDB) Close() error {
	return r.db.Close()
}

// Path returns the db file path.
func (r *ReportDB) Path() string {
	return r.path
}

// Put stores the payload of a request. Re-submission overwrites.
func (r *ReportDB) Put(id audit.RequestID, payload []byte, block uint32) error {
	if _, err := r.db.Exec(
		"INSERT OR REPLACE INTO report(requestID, block, payload) VALUES(?, ?, ?)",
		int64(id), int64(block), payload,
	); err != nil {
		return errors.Wrap(err, "put report")
	}
	r.cache.Add(id, payload)
	return nil
}

// Get returns the payload of a request.
func (r *ReportDB) Get(id audit.RequestID) ([]byte, error) {
	if cached, ok := r.cache.Get(id); ok {
		return cached.([]byte), nil
	}
	var payload []byte
	err := r.db.QueryRow("SELECT payload FROM report WHERE requestID = ?", int64(id)).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, errNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get report")
	}
	r.cache.Add(id, payload)
	return payload, nil
}

// Has returns whether a payload is stored for the request.
func (r *ReportDB) Has(id audit.RequestID) (bool, error) {
	if _, ok := r.cache.Get(id); ok {
		return true, nil
	}
	var one int
	err := r.db.QueryRow("SELECT 1 FROM report WHERE requestID = ?", int64(id)).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "has report")
	}
	return true, nil
}

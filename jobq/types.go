// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package jobq

import (
	"github.com/vechain/auditmarket/audit"
)

// Status of an audit request.
type Status uint8

// Request lifecycle. Once assigned, a request moves to exactly one of
// Completed, Error, Expired or Refunded, never back to Queued.
const (
	StatusNone Status = iota
	StatusQueued
	StatusAssigned
	StatusRefunded
	StatusCompleted
	StatusError
	StatusExpired
	// StatusResolved is reserved for dispute resolution.
	StatusResolved
)

func (s Status) String() string {
	switch s {
	case StatusNone:
		return "none"
	case StatusQueued:
		return "queued"
	case StatusAssigned:
		return "assigned"
	case StatusRefunded:
		return "refunded"
	case StatusCompleted:
		return "completed"
	case StatusError:
		return "error"
	case StatusExpired:
		return "expired"
	case StatusResolved:
		return "resolved"
	}
	return "unknown"
}

// Request is the full record of one audit request.
type Request struct {
	Requester    audit.Account
	Registrar    audit.Account
	URI          string
	Price        uint64
	RequestBlock uint32
	Status       Status
	Worker       audit.Account
	AssignBlock  uint32
	ReportBlock  uint32
}

// IsEmpty returns whether the record can be treated as absent.
func (r *Request) IsEmpty() bool {
	return r.Status == StatusNone && r.Requester.IsZero()
}

// Deadline returns the last block a report is accepted at.
func (r *Request) Deadline(auditTimeout uint32) uint32 {
	return r.AssignBlock + auditTimeout
}

// WorkerProfile carries per-worker scheduling state.
type WorkerProfile struct {
	MinPrice    uint64
	Assignments uint32
}

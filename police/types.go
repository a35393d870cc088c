// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package police

import (
	"math/big"

	"github.com/vechain/auditmarket/audit"
)

// Result is the aggregated verification outcome of one request.
type Result uint8

const (
	// ResultUnverified means no verifier has reported yet.
	ResultUnverified Result = iota
	// ResultValid tracks the most recent verdict while none was invalid.
	ResultValid
	// ResultInvalid is sticky: one invalid verdict settles the request.
	ResultInvalid
	// ResultExpired marks a reward claimed after the policing window closed
	// without any explicit verdict.
	ResultExpired
)

func (r Result) String() string {
	switch r {
	case ResultUnverified:
		return "unverified"
	case ResultValid:
		return "valid"
	case ResultInvalid:
		return "invalid"
	case ResultExpired:
		return "expired"
	}
	return "unknown"
}

// Verdict is the policing record of one reported request.
type Verdict struct {
	Worker   audit.Account
	Payout   *big.Int
	Deadline uint32
	Result   Result
	Claimed  bool
	Assigned bool
}

// IsEmpty returns whether the record can be treated as absent.
func (v *Verdict) IsEmpty() bool {
	return !v.Assigned && v.Worker.IsZero()
}

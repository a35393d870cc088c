// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package audit

import "math/big"

// Protocol default values. All durations are measured in blocks.
const (
	// DefaultAuditTimeout is the window a worker has to deliver a report
	// after picking up a job.
	DefaultAuditTimeout uint32 = 360

	// DefaultPolicingTimeout is the window after report submission during
	// which verifiers may invalidate the report.
	DefaultPolicingTimeout uint32 = 720

	// DefaultMaxAssignments limits concurrent assignments per worker.
	DefaultMaxAssignments uint32 = 3

	// DefaultPoliceCount is the number of verifiers sampled per report.
	DefaultPoliceCount uint32 = 3

	// DefaultSlashPercentage of the minimum stake forfeited on an invalid report.
	DefaultSlashPercentage uint32 = 20

	// DefaultFeePercentage of the job price collected for verifiers.
	DefaultFeePercentage uint32 = 10

	// DefaultMinJobPrice is the global price floor for audit requests.
	DefaultMinJobPrice uint64 = 10
)

// DefaultMinStake is the minimum collateral required to receive assignments.
var DefaultMinStake = big.NewInt(1000)

// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package market

import (
	"math/big"

	"github.com/vechain/auditmarket/audit"
)

// Config carries all market parameters.
type Config struct {
	// Escrow is the account holding staked collateral and queued job prices.
	Escrow audit.Account

	MinStake        *big.Int
	MinJobPrice     uint64
	AuditTimeout    uint32
	PolicingTimeout uint32
	MaxAssignments  uint32
	PoliceCount     uint32
	SlashPercentage uint32
	FeePercentage   uint32
}

// DefaultConfig returns the protocol default parameters with the given
// escrow account.
func DefaultConfig(escrow audit.Account) Config {
	return Config{
		Escrow:          escrow,
		MinStake:        new(big.Int).Set(audit.DefaultMinStake),
		MinJobPrice:     audit.DefaultMinJobPrice,
		AuditTimeout:    audit.DefaultAuditTimeout,
		PolicingTimeout: audit.DefaultPolicingTimeout,
		MaxAssignments:  audit.DefaultMaxAssignments,
		PoliceCount:     audit.DefaultPoliceCount,
		SlashPercentage: audit.DefaultSlashPercentage,
		FeePercentage:   audit.DefaultFeePercentage,
	}
}

// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package market

import (
	"github.com/vechain/auditmarket/metrics"
)

var (
	metricQueuedGauge     = metrics.LazyLoadGauge("queued_request_count")
	metricAssignedCounter = metrics.LazyLoadCounter("assigned_request_count")
	metricReportCounter   = metrics.LazyLoadCounterVec("submitted_report_count", []string{"result"})
	metricSlashCounter    = metrics.LazyLoadCounter("slash_count")
	metricClaimCounter    = metrics.LazyLoadCounter("claimed_reward_count")
	metricRefundCounter   = metrics.LazyLoadCounter("refunded_request_count")
)

// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package requests

import (
	"math/big"

	"github.com/vechain/auditmarket/audit"
	"github.com/vechain/auditmarket/jobq"
	"github.com/vechain/auditmarket/police"
)

// JSONRequest is the wire form of a request record.
type JSONRequest struct {
	ID           audit.RequestID `json:"id"`
	Requester    audit.Account   `json:"requester"`
	Registrar    audit.Account   `json:"registrar"`
	URI          string          `json:"uri"`
	Price        uint64          `json:"price"`
	RequestBlock uint32          `json:"requestBlock"`
	Status       string          `json:"status"`
	Worker       audit.Account   `json:"worker,omitempty"`
	AssignBlock  uint32          `json:"assignBlock,omitempty"`
	ReportBlock  uint32          `json:"reportBlock,omitempty"`
}

func convertRequest(id audit.RequestID, req *jobq.Request) *JSONRequest {
	return &JSONRequest{
		ID:           id,
		Requester:    req.Requester,
		Registrar:    req.Registrar,
		URI:          req.URI,
		Price:        req.Price,
		RequestBlock: req.RequestBlock,
		Status:       req.Status.String(),
		Worker:       req.Worker,
		AssignBlock:  req.AssignBlock,
		ReportBlock:  req.ReportBlock,
	}
}

// JSONVerdict is the wire form of a policing record.
type JSONVerdict struct {
	ID       audit.RequestID `json:"id"`
	Worker   audit.Account   `json:"worker"`
	Payout   *big.Int        `json:"payout"`
	Deadline uint32          `json:"deadline"`
	Result   string          `json:"result"`
	Claimed  bool            `json:"claimed"`
}

func convertVerdict(id audit.RequestID, v *police.Verdict) *JSONVerdict {
	return &JSONVerdict{
		ID:       id,
		Worker:   v.Worker,
		Payout:   v.Payout,
		Deadline: v.Deadline,
		Result:   v.Result.String(),
		Claimed:  v.Claimed,
	}
}

// JSONQueue summarizes the request queue.
type JSONQueue struct {
	Length   uint64 `json:"length"`
	MinPrice uint64 `json:"minPrice"`
	MaxPrice uint64 `json:"maxPrice"`
	Tiers    uint64 `json:"tiers"`
}

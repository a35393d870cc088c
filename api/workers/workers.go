// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package workers

import (
	"math/big"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vechain/auditmarket/api/utils"
	"github.com/vechain/auditmarket/audit"
	"github.com/vechain/auditmarket/market"
)

// JSONStake is the wire form of a collateral record.
type JSONStake struct {
	Account     audit.Account `json:"account"`
	Balance     *big.Int      `json:"balance"`
	Locked      bool          `json:"locked"`
	UnlockBlock uint32        `json:"unlockBlock,omitempty"`
}

// JSONProfile is the wire form of a scheduling profile.
type JSONProfile struct {
	Account     audit.Account `json:"account"`
	MinPrice    uint64        `json:"minPrice"`
	Assignments uint32        `json:"assignments"`
}

type Workers struct {
	market *market.Market
}

func New(m *market.Market) *Workers {
	return &Workers{market: m}
}

func (ws *Workers) handleGetStake(w http.ResponseWriter, req *http.Request) error {
	acc, err := utils.PathUint64(req, "account")
	if err != nil {
		return err
	}
	entry, err := ws.market.StakeOf(audit.Account(acc))
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &JSONStake{
		Account:     audit.Account(acc),
		Balance:     entry.Balance,
		Locked:      entry.Locked,
		UnlockBlock: entry.UnlockBlock,
	})
}

func (ws *Workers) handleGetProfile(w http.ResponseWriter, req *http.Request) error {
	acc, err := utils.PathUint64(req, "account")
	if err != nil {
		return err
	}
	profile, err := ws.market.WorkerProfile(audit.Account(acc))
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &JSONProfile{
		Account:     audit.Account(acc),
		MinPrice:    profile.MinPrice,
		Assignments: profile.Assignments,
	})
}

func (ws *Workers) handleGetPending(w http.ResponseWriter, req *http.Request) error {
	acc, err := utils.PathUint64(req, "account")
	if err != nil {
		return err
	}
	ids, err := ws.market.PendingPayments(audit.Account(acc))
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, ids)
}

func (ws *Workers) handleCanClaim(w http.ResponseWriter, req *http.Request) error {
	acc, err := utils.PathUint64(req, "account")
	if err != nil {
		return err
	}
	id, err := utils.PathUint64(req, "id")
	if err != nil {
		return err
	}
	block, err := utils.QueryUint64(req, "block", 0)
	if err != nil {
		return err
	}
	ok, err := ws.market.CanClaim(audit.Account(acc), audit.RequestID(id), uint32(block))
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"claimable": ok})
}

func (ws *Workers) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{account}/stake").
		Methods(http.MethodGet).
		Name("workers_get_stake").
		HandlerFunc(utils.WrapHandlerFunc(ws.handleGetStake))
	sub.Path("/{account}/profile").
		Methods(http.MethodGet).
		Name("workers_get_profile").
		HandlerFunc(utils.WrapHandlerFunc(ws.handleGetProfile))
	sub.Path("/{account}/pending").
		Methods(http.MethodGet).
		Name("workers_get_pending").
		HandlerFunc(utils.WrapHandlerFunc(ws.handleGetPending))
	sub.Path("/{account}/pending/{id}").
		Methods(http.MethodGet).
		Name("workers_get_claimable").
		HandlerFunc(utils.WrapHandlerFunc(ws.handleCanClaim))
}

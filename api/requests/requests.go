// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package requests

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vechain/auditmarket/api/utils"
	"github.com/vechain/auditmarket/audit"
	"github.com/vechain/auditmarket/jobq"
	"github.com/vechain/auditmarket/market"
	"github.com/vechain/auditmarket/police"
)

type Requests struct {
	market *market.Market
}

func New(m *market.Market) *Requests {
	return &Requests{market: m}
}

func (r *Requests) handleGetRequest(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.PathUint64(req, "id")
	if err != nil {
		return err
	}
	record, err := r.market.GetRequest(audit.RequestID(id))
	if err != nil {
		if jobq.IsErrNotFound(err) {
			return utils.NotFound(err)
		}
		return err
	}
	return utils.WriteJSON(w, convertRequest(audit.RequestID(id), record))
}

func (r *Requests) handleGetVerdict(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.PathUint64(req, "id")
	if err != nil {
		return err
	}
	verdict, err := r.market.Verdict(audit.RequestID(id))
	if err != nil {
		if police.IsErrUnknownRequest(err) {
			return utils.NotFound(err)
		}
		return err
	}
	return utils.WriteJSON(w, convertVerdict(audit.RequestID(id), verdict))
}

func (r *Requests) handleGetQueue(w http.ResponseWriter, _ *http.Request) error {
	length, err := r.market.QueueLength()
	if err != nil {
		return err
	}
	stats, err := r.market.MinPriceStatistics()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &JSONQueue{
		Length:   length,
		MinPrice: stats.Min,
		MaxPrice: stats.Max,
		Tiers:    stats.Tiers,
	})
}

func (r *Requests) handleNextAssignment(w http.ResponseWriter, _ *http.Request) error {
	id, err := r.market.NextAssignment()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"id": id})
}

func (r *Requests) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/queue").
		Methods(http.MethodGet).
		Name("requests_get_queue").
		HandlerFunc(utils.WrapHandlerFunc(r.handleGetQueue))
	sub.Path("/assignments/next").
		Methods(http.MethodGet).
		Name("requests_get_next_assignment").
		HandlerFunc(utils.WrapHandlerFunc(r.handleNextAssignment))
	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("requests_get_request").
		HandlerFunc(utils.WrapHandlerFunc(r.handleGetRequest))
	sub.Path("/{id}/verdict").
		Methods(http.MethodGet).
		Name("requests_get_verdict").
		HandlerFunc(utils.WrapHandlerFunc(r.handleGetVerdict))
}

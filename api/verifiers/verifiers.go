// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package verifiers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vechain/auditmarket/api/utils"
	"github.com/vechain/auditmarket/market"
)

type Verifiers struct {
	market *market.Market
}

func New(m *market.Market) *Verifiers {
	return &Verifiers{market: m}
}

func (v *Verifiers) handleGetVerifiers(w http.ResponseWriter, _ *http.Request) error {
	roster, err := v.market.Verifiers()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, roster)
}

func (v *Verifiers) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("verifiers_get_roster").
		HandlerFunc(utils.WrapHandlerFunc(v.handleGetVerifiers))
}

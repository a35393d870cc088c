// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package api exposes the read side of the market over HTTP. Mutations go
// through the market package directly; the HTTP surface is query only.
package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/auditmarket/api/requests"
	"github.com/vechain/auditmarket/api/verifiers"
	"github.com/vechain/auditmarket/api/workers"
	"github.com/vechain/auditmarket/market"
	"github.com/vechain/auditmarket/metrics"
)

// Options configures the HTTP surface.
type Options struct {
	AllowedOrigins string
	EnableMetrics  bool
}

// New returns the api handler.
func New(m *market.Market, opts Options) http.HandlerFunc {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()
	requests.New(m).Mount(router, "/requests")
	workers.New(m).Mount(router, "/workers")
	verifiers.New(m).Mount(router, "/verifiers")
	if opts.EnableMetrics {
		router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	}

	handler := handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(router)
	handler = handlers.CompressHandler(handler)

	return handler.ServeHTTP
}

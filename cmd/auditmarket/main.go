// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/log"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/auditmarket/api"
	"github.com/vechain/auditmarket/audit"
	"github.com/vechain/auditmarket/kv"
	"github.com/vechain/auditmarket/market"
	"github.com/vechain/auditmarket/metrics"
	"github.com/vechain/auditmarket/reportdb"
	"github.com/vechain/auditmarket/store"
	"github.com/vechain/auditmarket/token"
)

var (
	version   string
	gitCommit string
	gitTag    string
)

const defaultBlockTime = 10 * time.Second

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "AuditMarket",
		Usage:     "Decentralized audit job marketplace node",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			dataDirFlag,
			apiAddrFlag,
			apiCorsFlag,
			verbosityFlag,
			escrowFlag,
			registrarsFlag,
			blockTimeFlag,
			enableMetricsFlag,
			persistFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	defer func() { log.Info("exited") }()

	initLogger(ctx)
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	var (
		mainDB  *kv.LevelDB
		reports *reportdb.ReportDB
		err     error
	)
	if ctx.Bool(persistFlag.Name) {
		dataDir := makeDataDir(ctx)
		mainDB = openMainDB(dataDir)
		reports = openReportDB(dataDir)
	} else {
		if mainDB, err = kv.NewMem(); err != nil {
			fatal(fmt.Sprintf("open main database: %v", err))
		}
		if reports, err = reportdb.NewMem(); err != nil {
			fatal(fmt.Sprintf("open report database: %v", err))
		}
	}
	defer func() { log.Info("closing main database..."); mainDB.Close() }()
	defer func() { log.Info("closing report database..."); reports.Close() }()

	registrars, err := parseAccounts(ctx.String(registrarsFlag.Name))
	if err != nil {
		fatal(fmt.Sprintf("parse registrars: %v", err))
	}
	whitelist, err := market.NewWhitelist(store.NewContext(mainDB, "auth"), registrars...)
	if err != nil {
		fatal(fmt.Sprintf("init whitelist: %v", err))
	}

	ledger := token.New(store.NewContext(mainDB, "token"))
	cfg := market.DefaultConfig(audit.Account(ctx.Uint64(escrowFlag.Name)))
	m := market.New(mainDB, ledger, reports, whitelist, cfg)

	srv, apiURL := startAPIServer(ctx, api.New(m, api.Options{
		AllowedOrigins: ctx.String(apiCorsFlag.Name),
		EnableMetrics:  ctx.Bool(enableMetricsFlag.Name),
	}))
	defer func() { log.Info("stopping API server..."); srv.Shutdown(context.Background()) }()

	log.Info("starting audit market",
		"version", fullVersion(),
		"escrow", cfg.Escrow,
		"registrars", len(registrars),
		"api", apiURL,
	)

	done := handleExitSignal()
	runHeightTicker(mainDB, ctx.Duration(blockTimeFlag.Name), done)
	return nil
}

func startAPIServer(ctx *cli.Context, handler http.HandlerFunc) (*http.Server, string) {
	addr := ctx.String(apiAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		fatal(fmt.Sprintf("listen API addr [%v]: %v", addr, err))
	}
	srv := &http.Server{Handler: handler}
	go func() {
		if err := srv.Serve(listener); err != http.ErrServerClosed {
			log.Error("API server stopped", "error", err)
		}
	}()
	return srv, "http://" + listener.Addr().String() + "/"
}

// runHeightTicker advances the persisted block height at a fixed interval
// until the exit signal fires. The height is the logical clock all deadlines
// are measured against.
func runHeightTicker(db kv.GetPutter, blockTime time.Duration, done <-chan struct{}) {
	height := store.NewUint64(store.NewContext(db, "chain"), "height")
	ticker := time.NewTicker(blockTime)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			h, err := height.Inc()
			if err != nil {
				log.Error("advance height", "error", err)
				continue
			}
			log.Debug("height advanced", "height", h)
		}
	}
}

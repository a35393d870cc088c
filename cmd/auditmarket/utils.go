// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/ethereum/go-ethereum/log"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/auditmarket/audit"
	"github.com/vechain/auditmarket/kv"
	"github.com/vechain/auditmarket/reportdb"
)

func fatal(args ...interface{}) {
	fmt.Fprint(os.Stderr, "Fatal: ")
	fmt.Fprintln(os.Stderr, args...)
	os.Exit(1)
}

func initLogger(ctx *cli.Context) {
	verbosity := ctx.Int(verbosityFlag.Name)
	handler := log.NewTerminalHandlerWithLevel(os.Stderr, log.FromLegacyLevel(verbosity), true)
	log.SetDefault(log.NewLogger(handler))
}

func defaultDataDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".auditmarket")
	}
	return ""
}

func makeDataDir(ctx *cli.Context) string {
	dir := ctx.String(dataDirFlag.Name)
	if dir == "" {
		fatal("unable to infer default data dir, use -data-dir to specify one")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		fatal(fmt.Sprintf("create data dir [%v]: %v", dir, err))
	}
	return dir
}

func openMainDB(dataDir string) *kv.LevelDB {
	db, err := kv.New(filepath.Join(dataDir, "main.db"), kv.Options{
		CacheSize:              128,
		OpenFilesCacheCapacity: 512,
	})
	if err != nil {
		fatal(fmt.Sprintf("open main database: %v", err))
	}
	return db
}

func openReportDB(dataDir string) *reportdb.ReportDB {
	db, err := reportdb.New(filepath.Join(dataDir, "reports.db"))
	if err != nil {
		fatal(fmt.Sprintf("open report database: %v", err))
	}
	return db
}

// parseAccounts splits a comma separated account list.
func parseAccounts(raw string) ([]audit.Account, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var accs []audit.Account
	for _, part := range strings.Split(raw, ",") {
		v, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, err
		}
		accs = append(accs, audit.Account(v))
	}
	return accs, nil
}

func handleExitSignal() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		log.Info("exit signal received", "signal", sig)
		close(done)
	}()
	return done
}

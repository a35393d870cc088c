// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for market databases",
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8670",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-9)",
	}
	escrowFlag = cli.Uint64Flag{
		Name:  "escrow",
		Value: 1,
		Usage: "account holding staked collateral and escrowed job prices",
	}
	registrarsFlag = cli.StringFlag{
		Name:  "registrars",
		Usage: "comma separated accounts allowed to submit audit requests",
	}
	blockTimeFlag = cli.DurationFlag{
		Name:  "block-time",
		Value: defaultBlockTime,
		Usage: "interval at which the logical block height advances",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection and the /metrics endpoint",
	}
	persistFlag = cli.BoolFlag{
		Name:  "persist",
		Usage: "persist market state to disk instead of memory",
	}
)

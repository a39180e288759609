// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

// Package main is the basketlens command line.
//
// Commands:
//
//	basketlens analyze    segment customers and print segments and summary as JSON
//	basketlens recommend  train the recommender and print top products for a customer
//	basketlens serve      run the supervised HTTP API
//	basketlens version    print the build version
//
// Configuration is layered by internal/config: defaults, then the YAML file
// (--config, CONFIG_PATH or basketlens.yaml), then environment variables
// after an optional .env file. --log-level and --log-format override the
// logging section.
//
// SIGINT and SIGTERM cancel the running command. serve shuts the HTTP server
// down gracefully; analyze and recommend abort the run.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

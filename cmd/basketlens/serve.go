// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tomtom215/basketlens/internal/analysis"
	"github.com/tomtom215/basketlens/internal/api"
	"github.com/tomtom215/basketlens/internal/config"
	"github.com/tomtom215/basketlens/internal/ingest"
	"github.com/tomtom215/basketlens/internal/logging"
	"github.com/tomtom215/basketlens/internal/metrics"
	"github.com/tomtom215/basketlens/internal/supervisor"
	"github.com/tomtom215/basketlens/internal/supervisor/services"
)

// server is the wired application: the supervisor tree plus the pieces
// tests reach into.
type server struct {
	tree    *supervisor.SupervisorTree
	store   *analysis.Store
	source  *ingest.FileSource
	handler http.Handler
	http    *http.Server
}

// newServer wires ingest, analysis and the HTTP API into a supervisor tree.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func newServer(cfg *config.Config, version string, logger zerolog.Logger) (*server, error) {
	loader := ingest.NewLoader(logger)
	loader.SetMaxIssues(cfg.Data.MaxIssues)
	source := ingest.NewFileSource(loader, cfg.Data.TransactionsPath, cfg.Data.CatalogPath)

	analyzer, err := analysis.NewAnalyzer(analysis.OptionsFromConfig(cfg), logger)
	if err != nil {
		return nil, fmt.Errorf("create analyzer: %w", err)
	}
	store := analysis.NewStore()

	handler := api.NewHandler(store, cfg.API, version)
	chiMiddleware := api.NewChiMiddleware(api.ChiMiddlewareConfigFromAPI(cfg.API))
	router := api.NewRouter(handler, chiMiddleware).SetupChi()

	httpServer := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger(logger), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddAnalysisService(services.NewAnalysisService(source, analyzer, store, services.AnalysisServiceConfig{
		Interval:   cfg.Analysis.Interval,
		RunTimeout: cfg.Analysis.RunTimeout,
	}, logger))
	tree.AddAPIService(services.NewHTTPServerService(httpServer, cfg.Server.ShutdownTimeout, logger))

	return &server{
		tree:    tree,
		store:   store,
		source:  source,
		handler: router,
		http:    httpServer,
	}, nil
}

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Load the transaction log, analyze it in the background and serve the
results over HTTP. The analysis runs once at startup and again every
analysis.interval when that is set. Until the first run completes the data
endpoints answer 503 NOT_READY.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			metrics.SetAppInfo(version)

			srv, err := newServer(a.cfg, version, a.logger)
			if err != nil {
				return err
			}

			a.logger.Info().
				Str("version", version).
				Str("addr", srv.http.Addr).
				Str("transactions", a.cfg.Data.TransactionsPath).
				Dur("interval", a.cfg.Analysis.Interval).
				Msg("starting basketlens")

			err = srv.tree.Serve(cmd.Context())

			report, reportErr := srv.tree.UnstoppedServiceReport()
			if reportErr == nil && len(report) > 0 {
				a.logger.Warn().Int("count", len(report)).Msg("services did not stop within the shutdown timeout")
			}

			if err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("supervisor stopped: %w", err)
			}
			a.logger.Info().Msg("shutdown complete")
			return nil
		},
	}
}

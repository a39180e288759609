// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/basketlens/internal/analysis"
	"github.com/tomtom215/basketlens/internal/ingest"
	"github.com/tomtom215/basketlens/internal/models"
)

// dataFlags are the input overrides shared by analyze and recommend.
type dataFlags struct {
	input   string
	catalog string
	pretty  bool
}

func (f *dataFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "transactions CSV (default: data.transactions_path)")
	cmd.Flags().StringVar(&f.catalog, "catalog", "", "product catalog CSV (default: data.catalog_path)")
	cmd.Flags().BoolVar(&f.pretty, "pretty", false, "indent JSON output")
}

// loadBatch reads the transaction log named by the flags or the config.
func (a *app) loadBatch(ctx context.Context, f *dataFlags) (*models.Batch, error) {
	path := a.cfg.Data.TransactionsPath
	if f.input != "" {
		path = f.input
	}
	catalog := a.cfg.Data.CatalogPath
	if f.catalog != "" {
		catalog = f.catalog
	}

	loader := ingest.NewLoader(a.logger)
	loader.SetMaxIssues(a.cfg.Data.MaxIssues)

	batch, stats, err := loader.LoadBatch(ctx, path, catalog)
	if err != nil {
		return nil, err
	}
	if stats.Skipped > 0 {
		a.logger.Warn().
			Str("path", path).
			Int("skipped", stats.Skipped).
			Int("loaded", stats.Loaded).
			Msg("skipped malformed rows")
	}
	return batch, nil
}

// newAnalyzer builds an analyzer from the config; mutate adjusts options
// for the calling command.
func (a *app) newAnalyzer(mutate func(*analysis.Options)) (*analysis.Analyzer, error) {
	opts := analysis.OptionsFromConfig(a.cfg)
	if mutate != nil {
		mutate(&opts)
	}
	return analysis.NewAnalyzer(opts, a.logger)
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

// isTerminal reports whether w is a character device.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

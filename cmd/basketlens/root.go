// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package main

import (
	"fmt"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tomtom215/basketlens/internal/config"
	"github.com/tomtom215/basketlens/internal/logging"
)

// app carries state shared by all commands once PersistentPreRunE has run.
type app struct {
	cfgFile   string
	logLevel  string
	logFormat string

	cfg    *config.Config
	logger zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "basketlens",
		Short: "Customer segmentation and purchase recommendations",
		Long: `basketlens reads a purchase transaction log, groups customers into
spending segments with k-means and trains a small neural network that
recommends products per customer.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.init,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: basketlens.yaml, config.yaml or $CONFIG_PATH)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	flags.StringVar(&a.logFormat, "log-format", "", "log format (json, console)")

	root.AddCommand(a.analyzeCmd())
	root.AddCommand(a.recommendCmd())
	root.AddCommand(a.serveCmd())
	root.AddCommand(versionCmd())

	return root
}

// init loads configuration and configures logging. Flags win over the
// config file and environment.
func (a *app) init(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Logging.Format = a.logFormat
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    cmd.ErrOrStderr(),
	})

	a.cfg = cfg
	a.logger = logging.WithComponent("cli")
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "basketlens %s (%s %s/%s)\n",
				version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}

// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package main

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/tomtom215/basketlens/internal/analysis"
	"github.com/tomtom215/basketlens/internal/recommend"
)

func (a *app) recommendCmd() *cobra.Command {
	var (
		flags      dataFlags
		customerID int
		k          int
		progress   bool
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Train the recommender and print top products for a customer",
		Long: `Train the recommendation model on the transaction log and print the k
highest scoring products for one customer as JSON. Equal scores are ordered
by product ID. k <= 0 prints an empty list.`,
		Example: `  basketlens recommend --customer 7
  basketlens recommend --customer 7 --k 5 --input purchases.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			batch, err := a.loadBatch(ctx, &flags)
			if err != nil {
				return err
			}
			analyzer, err := a.newAnalyzer(func(o *analysis.Options) {
				o.DisableRecommend = false
			})
			if err != nil {
				return err
			}

			var opts []recommend.TrainOption
			if progress && isTerminal(cmd.ErrOrStderr()) {
				bar := newEpochBar(cmd.ErrOrStderr(), a.cfg.Recommend.Epochs)
				opts = append(opts, recommend.WithEpochCallback(func(recommend.EpochStats) {
					_ = bar.Add(1)
				}))
				defer func() { _ = bar.Finish() }()
			}

			result, err := analyzer.Run(ctx, batch, opts...)
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}

			// An explicit k <= 0 asks for nothing; zero would select the default.
			effectiveK := k
			if effectiveK <= 0 {
				effectiveK = -1
			}
			resp, err := result.Recommend(ctx, customerID, effectiveK)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resp, flags.pretty)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVarP(&customerID, "customer", "c", 0, "customer ID")
	cmd.Flags().IntVarP(&k, "k", "k", recommend.DefaultK, "number of recommendations")
	cmd.Flags().BoolVar(&progress, "progress", true, "show a training progress bar on a terminal")
	_ = cmd.MarkFlagRequired("customer")

	return cmd
}

func newEpochBar(w io.Writer, epochs int) *progressbar.ProgressBar {
	return progressbar.NewOptions(epochs,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Training model"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(w)
		}),
	)
}

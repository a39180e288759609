// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/basketlens/internal/analysis"
	"github.com/tomtom215/basketlens/internal/segment"
)

type analyzeOutput struct {
	RunID    string                `json:"run_id"`
	Status   analysis.Status       `json:"status"`
	Stats    analysis.RunStats     `json:"stats"`
	Segments []segment.Assignment  `json:"segments"`
	Clusters []segment.ClusterInfo `json:"clusters"`
	Summary  *segment.Summary      `json:"summary,omitempty"`
}

func (a *app) analyzeCmd() *cobra.Command {
	var flags dataFlags

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Segment customers and print segments and summary as JSON",
		Long: `Segment customers into spending groups and print the segment of every
customer together with summary statistics. The recommendation model is not
trained.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			batch, err := a.loadBatch(ctx, &flags)
			if err != nil {
				return err
			}
			analyzer, err := a.newAnalyzer(func(o *analysis.Options) {
				o.DisableRecommend = true
			})
			if err != nil {
				return err
			}

			result, err := analyzer.Run(ctx, batch)
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}

			out := analyzeOutput{
				RunID:    result.RunID,
				Status:   result.Status,
				Stats:    result.Stats,
				Segments: result.Assignments(),
				Clusters: []segment.ClusterInfo{},
				Summary:  result.Summary,
			}
			if result.Segments != nil && len(result.Segments.Clusters) > 0 {
				out.Clusters = result.Segments.Clusters
			}
			return writeJSON(cmd.OutOrStdout(), out, flags.pretty)
		},
	}

	flags.register(cmd)
	return cmd
}

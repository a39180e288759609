// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

/*
Package logging provides the zerolog configuration shared by every Basketlens
component.

Components receive a zerolog.Logger and derive their own child logger:

	logger := logging.WithComponent("analysis")
	logger.Info().Int("customers", n).Msg("segmentation complete")

Output is JSON by default and human-readable with Format "console". The
level and format come from the logging section of the configuration or the
--log-level and --log-format flags.

# Context

Analysis runs and HTTP requests tag their context with an ID; Ctx adds those
IDs to every line:

	ctx = logging.ContextWithRunID(ctx, runID)
	logging.Ctx(ctx).Warn().Int("skipped", n).Msg("rows rejected")

# slog Bridge

NewSlogLogger adapts a zerolog.Logger to *slog.Logger for libraries that log
through slog, such as sutureslog in the supervisor tree.
*/
package logging

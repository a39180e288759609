// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

/*
Package supervisor runs the long-lived basketlens services under suture v4.

# Overview

Services are grouped into two layers so that each restarts on its own:

	RootSupervisor ("basketlens")
	├── AnalysisSupervisor ("analysis-layer")
	│   └── AnalysisService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A data source that keeps failing to load backs off inside the analysis
layer. The HTTP server keeps answering from the last published result, or
with NOT_READY before the first one.

# Usage

	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger(logger), supervisor.DefaultTreeConfig())
	tree.AddAnalysisService(services.NewAnalysisService(source, analyzer, store, cfg, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second, logger))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

# Failure Handling

Each failure increments a counter that decays over FailureDecay seconds.
Above FailureThreshold the supervisor waits FailureBackoff before the next
restart. Zero TreeConfig fields take suture's defaults: 5 failures, 30
seconds decay, 15 seconds backoff and a 10 second shutdown timeout.

Service return values:
  - error: the service crashed and is restarted
  - suture.ErrDoNotRestart: the service finished and stays stopped
  - context error after cancellation: shutdown

# Logging

Supervisor events (start, stop, panic, backoff) go through sutureslog to an
slog.Logger. logging.NewSlogLogger bridges that logger to zerolog so the
events share the application's output format.

# Shutdown

UnstoppedServiceReport lists services that did not stop within
ShutdownTimeout.
*/
package supervisor

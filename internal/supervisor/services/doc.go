// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

// Package services adapts long-running components to suture.Service.
//
//   - AnalysisService: load, analyze and publish on startup and on an
//     optional interval
//   - HTTPServerService: net/http server with graceful shutdown
//
// Each service implements fmt.Stringer so supervisor events name it.
package services

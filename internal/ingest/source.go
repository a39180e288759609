// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package ingest

import (
	"context"
	"sync"

	"github.com/tomtom215/basketlens/internal/metrics"
	"github.com/tomtom215/basketlens/internal/models"
)

// FileSource reloads a batch from the same files on every Load, so each
// analysis run sees the current file contents.
type FileSource struct {
	loader      *Loader
	path        string
	catalogPath string

	mu        sync.Mutex
	lastStats *LoadStats
}

// NewFileSource creates a source for a transaction file and an optional
// catalog file.
func NewFileSource(loader *Loader, path, catalogPath string) *FileSource {
	return &FileSource{
		loader:      loader,
		path:        path,
		catalogPath: catalogPath,
	}
}

// Load reads the files and records skipped rows.
func (s *FileSource) Load(ctx context.Context) (*models.Batch, error) {
	batch, stats, err := s.loader.LoadBatch(ctx, s.path, s.catalogPath)
	if stats != nil {
		metrics.RecordSkipped("ingest", stats.Skipped)
		s.mu.Lock()
		s.lastStats = stats
		s.mu.Unlock()
	}
	return batch, err
}

// LastStats returns the statistics of the most recent load, or nil.
func (s *FileSource) LastStats() *LoadStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastStats
}

// String identifies the source in logs.
func (s *FileSource) String() string {
	return s.path
}

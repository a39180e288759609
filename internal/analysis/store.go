// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package analysis

import (
	"sync/atomic"
)

// Store holds the most recently published Result. Readers never block the
// publisher; a Result is immutable once published.
type Store struct {
	latest    atomic.Pointer[Result]
	published atomic.Int64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Publish replaces the latest result. Nil results are ignored.
func (s *Store) Publish(r *Result) {
	if r == nil {
		return
	}
	s.latest.Store(r)
	s.published.Add(1)
}

// Latest returns the most recent result, or nil before the first run.
func (s *Store) Latest() *Result {
	return s.latest.Load()
}

// Published returns how many results have been published.
func (s *Store) Published() int64 {
	return s.published.Load()
}

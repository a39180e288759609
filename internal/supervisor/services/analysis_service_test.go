// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/basketlens/internal/analysis"
	"github.com/tomtom215/basketlens/internal/models"
	"github.com/tomtom215/basketlens/internal/recommend"
)

type fakeSource struct {
	err   error
	loads atomic.Int32
}

func (f *fakeSource) Load(context.Context) (*models.Batch, error) {
	f.loads.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return &models.Batch{}, nil
}

type fakeAnalyzer struct {
	err  error
	runs atomic.Int32
}

func (f *fakeAnalyzer) Run(ctx context.Context, _ *models.Batch, _ ...recommend.TrainOption) (*analysis.Result, error) {
	n := f.runs.Add(1)
	result := &analysis.Result{RunID: "run", Status: analysis.StatusOK}
	if f.err != nil {
		result.Status = analysis.StatusFailed
		result.ErrorKind = models.KindOf(f.err)
		return result, f.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result.Stats.Customers = int(n)
	return result, nil
}

type recordingPublisher struct {
	mu      sync.Mutex
	results []*analysis.Result
}

func (p *recordingPublisher) Publish(r *analysis.Result) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.results = append(p.results, r)
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.results)
}

func (p *recordingPublisher) last() *analysis.Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.results) == 0 {
		return nil
	}
	return p.results[len(p.results)-1]
}

var _ suture.Service = (*AnalysisService)(nil)

func TestAnalysisService_RunOnceWithoutInterval(t *testing.T) {
	t.Parallel()

	source, analyzer, pub := &fakeSource{}, &fakeAnalyzer{}, &recordingPublisher{}
	svc := NewAnalysisService(source, analyzer, pub, AnalysisServiceConfig{}, zerolog.Nop())

	err := svc.Serve(context.Background())
	if !errors.Is(err, suture.ErrDoNotRestart) {
		t.Fatalf("Serve() = %v, want suture.ErrDoNotRestart", err)
	}
	if source.loads.Load() != 1 || analyzer.runs.Load() != 1 || pub.count() != 1 {
		t.Errorf("loads=%d runs=%d published=%d, want 1/1/1",
			source.loads.Load(), analyzer.runs.Load(), pub.count())
	}
	if svc.config.RunTimeout != 15*time.Minute {
		t.Errorf("RunTimeout = %v, want default 15m", svc.config.RunTimeout)
	}
}

func TestAnalysisService_PeriodicReruns(t *testing.T) {
	t.Parallel()

	pub := &recordingPublisher{}
	svc := NewAnalysisService(&fakeSource{}, &fakeAnalyzer{}, pub,
		AnalysisServiceConfig{Interval: 10 * time.Millisecond, RunTimeout: time.Second}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for pub.count() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
	if pub.count() < 3 {
		t.Fatalf("published %d results, want at least 3", pub.count())
	}
	if pub.last().Stats.Customers < 3 {
		t.Errorf("latest result is from run %d, want a fresh run", pub.last().Stats.Customers)
	}
}

func TestAnalysisService_LoadFailure(t *testing.T) {
	t.Parallel()

	loadErr := errors.New("open purchases.csv: no such file")
	analyzer, pub := &fakeAnalyzer{}, &recordingPublisher{}
	svc := NewAnalysisService(&fakeSource{err: loadErr}, analyzer, pub, AnalysisServiceConfig{}, zerolog.Nop())

	err := svc.Serve(context.Background())
	if !errors.Is(err, loadErr) {
		t.Fatalf("Serve() = %v, want load error for supervisor restart", err)
	}
	if analyzer.runs.Load() != 0 || pub.count() != 0 {
		t.Error("nothing should be analyzed or published after a load failure")
	}
}

func TestAnalysisService_PublishesFailedRun(t *testing.T) {
	t.Parallel()

	runErr := models.NewError(models.KindDataQuality, "segment.Aggregate", "contradictory records")
	pub := &recordingPublisher{}
	svc := NewAnalysisService(&fakeSource{}, &fakeAnalyzer{err: runErr}, pub, AnalysisServiceConfig{}, zerolog.Nop())

	if err := svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce() = %v, want nil for analysis failures", err)
	}
	got := pub.last()
	if got == nil || got.Status != analysis.StatusFailed || got.ErrorKind != models.KindDataQuality {
		t.Errorf("published %+v, want failed data quality run", got)
	}
}

func TestAnalysisService_CanceledRunNotPublished(t *testing.T) {
	t.Parallel()

	pub := &recordingPublisher{}
	svc := NewAnalysisService(&fakeSource{}, &fakeAnalyzer{}, pub, AnalysisServiceConfig{}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := svc.RunOnce(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("RunOnce() = %v, want context.Canceled", err)
	}
	if pub.count() != 0 {
		t.Errorf("published %d results after cancellation, want 0", pub.count())
	}
}

func TestAnalysisService_WithStore(t *testing.T) {
	t.Parallel()

	store := analysis.NewStore()
	svc := NewAnalysisService(&fakeSource{}, &fakeAnalyzer{}, store, AnalysisServiceConfig{}, zerolog.Nop())

	if err := svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce() = %v", err)
	}
	if store.Latest() == nil || store.Published() != 1 {
		t.Errorf("store has %d results, want 1", store.Published())
	}
	if svc.String() != "analysis-service" {
		t.Errorf("String() = %q", svc.String())
	}
}

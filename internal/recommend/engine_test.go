// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package recommend

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/basketlens/internal/models"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(smallConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return engine
}

func TestNewEngine(t *testing.T) {
	t.Parallel()

	t.Run("nil config uses defaults", func(t *testing.T) {
		t.Parallel()
		engine, err := NewEngine(nil, zerolog.Nop())
		if err != nil {
			t.Fatalf("NewEngine(nil) error = %v", err)
		}
		if engine.config.Limits.DefaultK != DefaultK {
			t.Errorf("DefaultK = %d, want %d", engine.config.Limits.DefaultK, DefaultK)
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		t.Parallel()
		cfg := DefaultConfig()
		cfg.Training.Epochs = 0
		if _, err := NewEngine(cfg, zerolog.Nop()); err == nil {
			t.Error("NewEngine() error = nil, want error")
		}
	})

	t.Run("untrained engine", func(t *testing.T) {
		t.Parallel()
		engine := newTestEngine(t)
		if engine.Trained() {
			t.Error("Trained() = true before training")
		}
		if engine.Model() != nil {
			t.Error("Model() != nil before training")
		}
	})
}

func TestEngine_Recommend(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	catalog := models.Catalog{
		1: {ID: 1, Name: "Novel", Category: "Books"},
		2: {ID: 2, Name: "Kettle", Category: "Kitchen"},
	}
	err := engine.Train(context.Background(), pairs([2]int{0, 1}, [2]int{0, 2}, [2]int{1, 1}), catalog)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	tests := []struct {
		name    string
		req     Request
		wantLen int
		wantK   int
	}{
		{"default k", Request{CustomerID: 1}, 3, DefaultK},
		{"explicit k", Request{CustomerID: 0, K: 2}, 2, 2},
		{"k beyond products", Request{CustomerID: 0, K: 10}, 3, 10},
		{"negative k", Request{CustomerID: 0, K: -1}, 0, -1},
		{"k clamped to max", Request{CustomerID: 0, K: 1000}, 3, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			resp, err := engine.Recommend(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("Recommend() error = %v", err)
			}
			if len(resp.Items) != tt.wantLen {
				t.Errorf("len(Items) = %d, want %d", len(resp.Items), tt.wantLen)
			}
			if resp.Metadata.K != tt.wantK {
				t.Errorf("Metadata.K = %d, want %d", resp.Metadata.K, tt.wantK)
			}
			if resp.Metadata.RequestID == "" {
				t.Error("Metadata.RequestID is empty")
			}
			if resp.Metadata.ModelVersion != 1 {
				t.Errorf("Metadata.ModelVersion = %d, want 1", resp.Metadata.ModelVersion)
			}
		})
	}

	t.Run("catalog placeholders", func(t *testing.T) {
		t.Parallel()
		resp, err := engine.Recommend(context.Background(), Request{CustomerID: 0, K: 3})
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		for _, item := range resp.Items {
			if item.ProductID == 3 && (item.Name != "Product 3" || item.Category != UnknownCategory) {
				t.Errorf("product 3 = %+v, want placeholder", item)
			}
			if item.ProductID == 1 && item.Name != "Novel" {
				t.Errorf("product 1 name = %q, want Novel", item.Name)
			}
		}
	})

	t.Run("customer out of range", func(t *testing.T) {
		t.Parallel()
		_, err := engine.Recommend(context.Background(), Request{CustomerID: 2})
		if !errors.Is(err, models.ErrOutOfRange) {
			t.Errorf("Recommend() error = %v, want ErrOutOfRange", err)
		}
	})

	t.Run("request id preserved", func(t *testing.T) {
		t.Parallel()
		resp, err := engine.Recommend(context.Background(), Request{CustomerID: 0, RequestID: "req-1"})
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		if resp.Metadata.RequestID != "req-1" {
			t.Errorf("RequestID = %q, want req-1", resp.Metadata.RequestID)
		}
	})
}

func TestEngine_EmptyBatch(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	if err := engine.Train(context.Background(), nil, nil); err != nil {
		t.Fatalf("Train(nil) error = %v", err)
	}
	if engine.Trained() {
		t.Error("Trained() = true after empty batch")
	}

	resp, err := engine.Recommend(context.Background(), Request{CustomerID: 0})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if resp.Items == nil || len(resp.Items) != 0 {
		t.Errorf("Items = %v, want empty non-nil slice", resp.Items)
	}

	if _, err := engine.Predict(0); !errors.Is(err, models.ErrOutOfRange) {
		t.Errorf("Predict() error = %v, want ErrOutOfRange", err)
	}
}

func TestEngine_RetrainReplacesModel(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	ctx := context.Background()

	if err := engine.Train(ctx, pairs([2]int{0, 1}, [2]int{1, 2}), nil); err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	first := engine.Model()

	if err := engine.Train(ctx, pairs([2]int{0, 1}, [2]int{1, 2}, [2]int{2, 4}), nil); err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	second := engine.Model()

	if first == second {
		t.Error("model not replaced after retrain")
	}
	if got := second.Universe(); got.NumCustomers != 3 || got.NumProducts != 5 {
		t.Errorf("Universe = %+v, want 3 customers / 5 products", got)
	}

	status := engine.Status()
	if status.ModelVersion != 2 {
		t.Errorf("ModelVersion = %d, want 2", status.ModelVersion)
	}
	if status.IsTraining {
		t.Error("IsTraining = true after training")
	}
	if status.Progress != 100 {
		t.Errorf("Progress = %d, want 100", status.Progress)
	}
	if status.Examples != 3 {
		t.Errorf("Examples = %d, want 3", status.Examples)
	}
}

func TestEngine_CheckUniverse(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	trained := pairs([2]int{0, 1}, [2]int{1, 2})

	if err := engine.CheckUniverse(trained); err != nil {
		t.Errorf("CheckUniverse() on untrained engine = %v, want nil", err)
	}

	if err := engine.Train(context.Background(), trained, nil); err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	if err := engine.CheckUniverse(pairs([2]int{1, 2}, [2]int{0, 2})); err != nil {
		t.Errorf("CheckUniverse(same universe) = %v, want nil", err)
	}

	err := engine.CheckUniverse(pairs([2]int{0, 1}, [2]int{1, 2}, [2]int{2, 1}))
	if !errors.Is(err, ErrStaleModel) {
		t.Errorf("CheckUniverse(new customer) = %v, want ErrStaleModel", err)
	}
	if models.KindOf(err) != models.KindConfiguration {
		t.Errorf("KindOf = %v, want %v", models.KindOf(err), models.KindConfiguration)
	}
}

func TestEngine_ConcurrentRecommend(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	ctx := context.Background()
	batch := pairs([2]int{0, 1}, [2]int{1, 2}, [2]int{2, 3})
	if err := engine.Train(ctx, batch, nil); err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(id int) {
			defer wg.Done()
			if _, err := engine.Recommend(ctx, Request{CustomerID: id % 3}); err != nil {
				errs <- err
			}
		}(i)
		go func() {
			defer wg.Done()
			// Concurrent retrains either run or report that one is running.
			_ = engine.Train(ctx, batch, nil)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Recommend() error = %v", err)
	}
	if engine.RequestCount() != 10 {
		t.Errorf("RequestCount() = %d, want 10", engine.RequestCount())
	}
}

func TestEngine_CanceledContext(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := engine.Recommend(ctx, Request{CustomerID: 0}); !errors.Is(err, context.Canceled) {
		t.Errorf("Recommend() error = %v, want context.Canceled", err)
	}

	err := engine.Train(ctx, pairs([2]int{0, 1}), nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Train() error = %v, want context.Canceled", err)
	}
	if engine.Status().LastError == "" {
		t.Error("LastError empty after failed training")
	}
	if engine.ErrorCount() != 1 {
		t.Errorf("ErrorCount() = %d, want 1", engine.ErrorCount())
	}
}

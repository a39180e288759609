// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/tomtom215/basketlens/internal/analysis"
	"github.com/tomtom215/basketlens/internal/config"
	"github.com/tomtom215/basketlens/internal/models"
	"github.com/tomtom215/basketlens/internal/recommend"
)

// staticSource serves a fixed result.
type staticSource struct {
	result *analysis.Result
}

func (s staticSource) Latest() *analysis.Result {
	return s.result
}

func tx(customer, product int, name, category string, amount int64) models.Transaction {
	return models.Transaction{
		CustomerID:      customer,
		ProductID:       product,
		ProductName:     name,
		ProductCategory: category,
		PurchaseAmount:  decimal.NewFromInt(amount),
		PurchaseDate:    time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
	}
}

// testBatch has customers 0-5 and products 1-7.
func testBatch() *models.Batch {
	txs := []models.Transaction{
		tx(0, 1, "Watch", "Luxury", 2500),
		tx(0, 2, "Ring", "Luxury", 1800),
		tx(1, 3, "Socks", "Apparel", 5),
		tx(1, 4, "Gum", "Grocery", 2),
		tx(2, 4, "Gum", "Grocery", 2),
		tx(2, 5, "Bread", "Grocery", 4),
		tx(3, 6, "Novel", "Books", 20),
		tx(4, 6, "Novel", "Books", 20),
		tx(4, 7, "Atlas", "Books", 35),
		tx(5, 1, "Watch", "Luxury", 2500),
	}
	return &models.Batch{Transactions: txs, Catalog: models.CatalogFromTransactions(txs)}
}

// runAnalysis analyzes testBatch with a small network.
func runAnalysis(t *testing.T, disableRecommend bool) *analysis.Result {
	t.Helper()

	rc := recommend.DefaultConfig()
	rc.Network.HiddenLayers = []int{8}
	rc.Training.Epochs = 2
	rc.Training.BatchSize = 4
	rc.Training.Workers = 1

	a, err := analysis.NewAnalyzer(analysis.Options{
		Recommend:        rc,
		DisableRecommend: disableRecommend,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewAnalyzer() error = %v", err)
	}
	result, err := a.Run(context.Background(), testBatch())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return result
}

func testAPIConfig() config.APIConfig {
	return config.APIConfig{
		DefaultPageSize:   2,
		MaxPageSize:       4,
		CORSOrigins:       []string{"*"},
		RateLimitDisabled: true,
	}
}

// newTestRouter builds the full router over result without rate limits.
func newTestRouter(result *analysis.Result) http.Handler {
	cfg := testAPIConfig()
	handler := NewHandler(staticSource{result: result}, cfg, "test")
	return NewRouter(handler, NewChiMiddleware(ChiMiddlewareConfigFromAPI(cfg))).SetupChi()
}

func doGet(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

type envelope[T any] struct {
	Status   string           `json:"status"`
	Data     T                `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v\nbody: %s", err, rec.Body.String())
	}
	return env
}

// expectError checks status and error code of an error response.
func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d\nbody: %s", rec.Code, status, rec.Body.String())
	}
	env := decode[any](t, rec)
	if env.Status != "error" || env.Error == nil {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
	if env.Error.Code != code {
		t.Errorf("error code = %q, want %q", env.Error.Code, code)
	}
}

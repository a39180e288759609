// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/tomtom215/basketlens/internal/models"
	"github.com/tomtom215/basketlens/internal/validation"
)

// Column keys after header normalization.
const (
	colCustomerID      = "customerid"
	colProductID       = "productid"
	colProductName     = "productname"
	colProductCategory = "productcategory"
	colPurchaseAmount  = "purchaseamount"
	colPurchaseDate    = "purchasedate"
)

var transactionColumns = []string{
	colCustomerID, colProductID, colProductName,
	colProductCategory, colPurchaseAmount, colPurchaseDate,
}

var catalogColumns = []string{colProductID, colProductName, colProductCategory}

// DateLayouts are tried in order when parsing purchase dates.
var DateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"02 January 2006",
}

// DefaultMaxIssues bounds LoadStats.Issues.
const DefaultMaxIssues = 100

// ctxCheckInterval is how many rows are read between context checks.
const ctxCheckInterval = 1000

// Loader reads transaction and catalog CSV files.
type Loader struct {
	logger    zerolog.Logger
	maxIssues int
}

// NewLoader creates a loader.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewLoader(logger zerolog.Logger) *Loader {
	return &Loader{
		logger:    logger.With().Str("component", "ingest").Logger(),
		maxIssues: DefaultMaxIssues,
	}
}

// SetMaxIssues bounds how many rejected rows LoadStats.Issues records.
// Values <= 0 keep the default.
func (l *Loader) SetMaxIssues(n int) {
	if n > 0 {
		l.maxIssues = n
	}
}

// LoadBatch reads the transaction file and, when catalogPath is non-empty,
// the catalog file.
func (l *Loader) LoadBatch(ctx context.Context, path, catalogPath string) (*models.Batch, *LoadStats, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path comes from operator config
	if err != nil {
		return nil, nil, fmt.Errorf("open transactions: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			l.logger.Warn().Err(closeErr).Str("path", path).Msg("error closing transactions file")
		}
	}()

	txs, stats, err := l.LoadTransactions(ctx, f)
	if err != nil {
		return nil, stats, fmt.Errorf("load %s: %w", path, err)
	}

	batch := &models.Batch{Transactions: txs}
	if catalogPath == "" {
		batch.Catalog = models.CatalogFromTransactions(txs)
	} else {
		cf, err := os.Open(catalogPath) //nolint:gosec // G304: path comes from operator config
		if err != nil {
			return nil, stats, fmt.Errorf("open catalog: %w", err)
		}
		defer func() {
			if closeErr := cf.Close(); closeErr != nil {
				l.logger.Warn().Err(closeErr).Str("path", catalogPath).Msg("error closing catalog file")
			}
		}()
		batch.Catalog, err = l.LoadCatalog(cf)
		if err != nil {
			return nil, stats, fmt.Errorf("load %s: %w", catalogPath, err)
		}
	}

	l.logger.Info().
		Str("path", path).
		Int("loaded", stats.Loaded).
		Int("skipped", stats.Skipped).
		Int("products", len(batch.Catalog)).
		Dur("duration", stats.Duration()).
		Msg("batch loaded")

	return batch, stats, nil
}

// LoadTransactions parses a transaction CSV. An empty input yields no
// transactions and no error.
func (l *Loader) LoadTransactions(ctx context.Context, r io.Reader) ([]models.Transaction, *LoadStats, error) {
	stats := &LoadStats{StartTime: time.Now()}
	defer func() { stats.EndTime = time.Now() }()

	reader := newReader(r)
	index, err := readHeader(reader, transactionColumns)
	if errors.Is(err, io.EOF) {
		return []models.Transaction{}, stats, nil
	}
	if err != nil {
		return nil, stats, err
	}

	txs := make([]models.Transaction, 0, 1024)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return nil, stats, fmt.Errorf("read csv: %w", err)
			}
			stats.Processed++
			stats.skip(parseErr.Line, parseErr.Err.Error(), l.maxIssues)
			continue
		}

		stats.Processed++
		if stats.Processed%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, stats, err
			}
		}

		line, _ := reader.FieldPos(0)
		tx, reason := parseTransaction(record, index)
		if reason == "" {
			if verr := validation.ValidateStruct(&tx); verr != nil {
				reason = verr.Error()
			}
		}
		if reason != "" {
			stats.skip(line, reason, l.maxIssues)
			continue
		}
		txs = append(txs, tx)
		stats.Loaded++
	}

	if stats.Skipped > 0 {
		l.logger.Warn().
			Int("skipped", stats.Skipped).
			Int("processed", stats.Processed).
			Msg("rows rejected during load")
	}
	return txs, stats, nil
}

// LoadCatalog parses a product catalog CSV. Invalid rows are skipped; later
// rows replace earlier ones for the same product ID.
func (l *Loader) LoadCatalog(r io.Reader) (models.Catalog, error) {
	reader := newReader(r)
	index, err := readHeader(reader, catalogColumns)
	if errors.Is(err, io.EOF) {
		return models.Catalog{}, nil
	}
	if err != nil {
		return nil, err
	}

	catalog := make(models.Catalog)
	skipped := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				skipped++
				continue
			}
			return nil, fmt.Errorf("read csv: %w", err)
		}

		id, err := strconv.Atoi(strings.TrimSpace(record[index[colProductID]]))
		name := strings.TrimSpace(record[index[colProductName]])
		if err != nil || id < 1 || name == "" {
			skipped++
			continue
		}
		catalog[id] = models.Product{
			ID:       id,
			Name:     name,
			Category: strings.TrimSpace(record[index[colProductCategory]]),
		}
	}

	if skipped > 0 {
		l.logger.Warn().Int("skipped", skipped).Msg("catalog rows rejected")
	}
	return catalog, nil
}

func newReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true
	return reader
}

// readHeader maps required column keys to record positions.
func readHeader(reader *csv.Reader, required []string) (map[string]int, error) {
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, err
		}
		return nil, models.WrapError(models.KindDataQuality, "ingest.readHeader", err, "unreadable header")
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[normalizeColumn(name)] = i
	}

	var missing []string
	for _, col := range required {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, models.NewError(models.KindDataQuality, "ingest.readHeader",
			"missing columns: %s", strings.Join(missing, ", "))
	}
	return index, nil
}

func normalizeColumn(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(name)
}

// parseTransaction converts a record, returning a reason when a field does
// not parse.
func parseTransaction(record []string, index map[string]int) (models.Transaction, string) {
	field := func(col string) string {
		return strings.TrimSpace(record[index[col]])
	}

	var tx models.Transaction
	var err error

	if tx.CustomerID, err = strconv.Atoi(field(colCustomerID)); err != nil {
		return tx, fmt.Sprintf("invalid customer id %q", field(colCustomerID))
	}
	if tx.ProductID, err = strconv.Atoi(field(colProductID)); err != nil {
		return tx, fmt.Sprintf("invalid product id %q", field(colProductID))
	}
	tx.ProductName = field(colProductName)
	tx.ProductCategory = field(colProductCategory)

	if tx.PurchaseAmount, err = decimal.NewFromString(field(colPurchaseAmount)); err != nil {
		return tx, fmt.Sprintf("invalid purchase amount %q", field(colPurchaseAmount))
	}
	if tx.PurchaseDate, err = ParseDate(field(colPurchaseDate)); err != nil {
		return tx, err.Error()
	}
	return tx, ""
}

// ParseDate parses s with the first matching layout in DateLayouts.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid purchase date %q", s)
}

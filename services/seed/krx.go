// Package seed loads the KRX listed-company master file into the stock catalog.
package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"

	"roboadvisor_backend/models"
)

// Column positions in the KRX download
const (
	colTicker  = 0
	colStockID = 1
	colName    = 3
	colMarket  = 6
	minColumns = 7
)

// StockStore is the catalog the loader writes into
type StockStore interface {
	Count(ctx context.Context) (int64, error)
	SaveAll(ctx context.Context, stocks []models.Stock) error
}

// ParseKRX reads the KRX CSV. The header row is skipped, as are rows with
// fewer than seven columns. A nil enc reads the input as UTF-8.
func ParseKRX(r io.Reader, enc encoding.Encoding) ([]models.Stock, error) {
	if enc != nil {
		r = transform.NewReader(r, enc.NewDecoder())
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return []models.Stock{}, nil
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	stocks := []models.Stock{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		if len(record) < minColumns {
			log.Printf("[WARN] skipping malformed KRX row: %v", record)
			continue
		}

		stock := models.Stock{
			StockID:      strings.TrimSpace(record[colStockID]),
			TickerSymbol: strings.TrimSpace(record[colTicker]),
			StockName:    strings.TrimSpace(record[colName]),
			Market:       strings.TrimSpace(record[colMarket]),
		}
		if stock.StockID == "" {
			continue
		}
		stocks = append(stocks, stock)
	}
	return stocks, nil
}

// Loader seeds the catalog once
type Loader struct {
	store StockStore
}

// NewLoader creates a seed loader
func NewLoader(store StockStore) *Loader {
	return &Loader{store: store}
}

// LoadFile loads an EUC-KR KRX file unless the catalog already has rows.
// It returns the number of stocks inserted.
func (l *Loader) LoadFile(ctx context.Context, path string) (int, error) {
	count, err := l.store.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		log.Printf("[INFO] stock catalog already has %d rows, skipping seed", count)
		return 0, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	stocks, err := ParseKRX(f, korean.EUCKR)
	if err != nil {
		return 0, err
	}
	if err := l.store.SaveAll(ctx, stocks); err != nil {
		return 0, err
	}

	log.Printf("[INFO] seeded %d stocks from %s", len(stocks), path)
	return len(stocks), nil
}

// Package quote fetches live price snapshots from the AI quote service.
package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot is the live price of one stock
type Snapshot struct {
	StockID   string  `json:"stockId"`
	StockName string  `json:"stockName"`
	Price     int64   `json:"price"`
	ChangePct float64 `json:"changePct"`
}

// Zero returns the snapshot used when the quote is unavailable
func Zero(stockID, stockName string) Snapshot {
	return Snapshot{StockID: stockID, StockName: stockName}
}

// Fetcher calls GET {baseURL}/api/stock/{id}
type Fetcher struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
}

// NewFetcher creates a quote fetcher on the shared HTTP client
func NewFetcher(httpClient *http.Client, baseURL string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
	}
}

// Fetch returns the live snapshot for stockID. Upstream failures yield Zero.
func (f *Fetcher) Fetch(ctx context.Context, stockID, stockName string) Snapshot {
	body, err := f.get(ctx, stockID)
	if err != nil {
		log.Printf("[WARN] quote %s unavailable: %v", stockID, err)
		return Zero(stockID, stockName)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		log.Printf("[WARN] quote %s: unexpected body", stockID)
		return Zero(stockID, stockName)
	}

	if raw, ok := fields["detail"]; ok {
		log.Printf("[WARN] quote %s: upstream detail: %s", stockID, textOf(raw))
		return Zero(stockID, stockName)
	}

	snap := Zero(stockID, stockName)
	if d, ok := parseDecimal(fields["price"]); ok {
		snap.Price = d.IntPart()
	}
	if d, ok := parseDecimal(fields["changePct"]); ok {
		snap.ChangePct = d.InexactFloat64()
	}
	return snap
}

func (f *Fetcher) get(ctx context.Context, stockID string) ([]byte, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/api/stock/%s", f.baseURL, url.PathEscape(stockID)), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, fmt.Errorf("empty body")
	}
	return body, nil
}

// textOf renders a JSON string or number as plain text
func textOf(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

func parseDecimal(raw json.RawMessage) (decimal.Decimal, bool) {
	if len(raw) == 0 {
		return decimal.Zero, false
	}
	text := strings.TrimSpace(textOf(raw))
	text = strings.TrimSuffix(text, "%")
	text = strings.ReplaceAll(text, ",", "")
	d, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Chart request parameters for the detail page
const (
	ChartInterval = "1d"
	ChartRange    = "3mo"
)

// ErrNoResult is returned when the chart response carries no result element
var ErrNoResult = errors.New("yahoo: no chart result")

// ChartClient fetches daily price history from the Yahoo Finance chart API
type ChartClient struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
	location   *time.Location
}

// NewChartClient creates a chart client on the shared HTTP client
func NewChartClient(httpClient *http.Client, baseURL string, timeout time.Duration, loc *time.Location) *ChartClient {
	if loc == nil {
		loc = time.UTC
	}
	return &ChartClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		timeout:    timeout,
		location:   loc,
	}
}

// FeedSymbol maps a domestic short code to its Yahoo ticker, e.g. 005930 -> 005930.KS
func FeedSymbol(stockID, suffix string) string {
	return stockID + suffix
}

// FetchChart requests the 3-month daily chart for symbol
func (c *ChartClient) FetchChart(ctx context.Context, symbol string) (*ChartPayload, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		c.baseURL, url.PathEscape(symbol), ChartInterval, ChartRange)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("yahoo: build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, truncate(body, 200))
	}

	var chart ChartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, ErrNoResult
	}

	return &chart.Chart.Result[0], nil
}

// Series fetches the chart for symbol and builds the bar series from it
func (c *ChartClient) Series(ctx context.Context, symbol string) (SeriesResult, error) {
	payload, err := c.FetchChart(ctx, symbol)
	if err != nil {
		return SeriesResult{Bars: []Bar{}}, err
	}
	return BuildSeries(payload, c.location), nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

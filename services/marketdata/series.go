// Package marketdata turns Yahoo Finance chart payloads into daily bar series.
package marketdata

import (
	"encoding/json"
	"time"
)

// MaxBars caps the number of bars taken from the upstream window
const MaxBars = 100

// Bar is one trading day of OHLCV data
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// OHLC holds the display prices of a single bar in whole currency units
type OHLC struct {
	Open  int64 `json:"open"`
	Low   int64 `json:"low"`
	High  int64 `json:"high"`
	Close int64 `json:"-"`
}

// SeriesResult is a validated bar series plus the price side channel
type SeriesResult struct {
	Bars          []Bar
	Price         int64
	PreviousClose float64
	ChangeAmount  int64
	ChangePercent float64
	Last          OHLC
}

// ChartResponse is the top-level Yahoo v8 chart response
type ChartResponse struct {
	Chart struct {
		Result []ChartPayload `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// ChartPayload is one element of chart.result
type ChartPayload struct {
	Meta struct {
		Symbol             string  `json:"symbol"`
		Currency           string  `json:"currency"`
		RegularMarketPrice float64 `json:"regularMarketPrice"`
		ChartPreviousClose float64 `json:"chartPreviousClose"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []QuoteArrays `json:"quote"`
	} `json:"indicators"`
}

// QuoteArrays are the parallel per-day arrays. Entries may be null on holidays
// or partial sessions, so they are kept untyped.
type QuoteArrays struct {
	Open   []any `json:"open"`
	High   []any `json:"high"`
	Low    []any `json:"low"`
	Close  []any `json:"close"`
	Volume []any `json:"volume"`
}

// BuildSeries validates the payload into an ascending bar series.
// A nil payload or an empty timestamp array yields the empty result.
func BuildSeries(p *ChartPayload, loc *time.Location) SeriesResult {
	res := SeriesResult{Bars: []Bar{}}
	if p == nil || len(p.Timestamp) == 0 {
		return res
	}
	if loc == nil {
		loc = time.UTC
	}

	res.Price = int64(p.Meta.RegularMarketPrice)
	res.PreviousClose = p.Meta.ChartPreviousClose
	change := p.Meta.RegularMarketPrice - p.Meta.ChartPreviousClose
	res.ChangeAmount = int64(change)
	if p.Meta.ChartPreviousClose > 0 {
		res.ChangePercent = change / p.Meta.ChartPreviousClose * 100
	}

	var quote QuoteArrays
	if len(p.Indicators.Quote) > 0 {
		quote = p.Indicators.Quote[0]
	}

	start := 0
	if len(p.Timestamp) > MaxBars {
		start = len(p.Timestamp) - MaxBars
	}

	for i := start; i < len(p.Timestamp); i++ {
		o, okO := numberAt(quote.Open, i)
		h, okH := numberAt(quote.High, i)
		l, okL := numberAt(quote.Low, i)
		c, okC := numberAt(quote.Close, i)
		if !okO || !okH || !okL || !okC {
			continue
		}
		vol, _ := numberAt(quote.Volume, i)

		res.Bars = append(res.Bars, Bar{
			Date:   calendarDay(p.Timestamp[i], loc),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: int64(vol),
		})
	}

	if n := len(res.Bars); n > 0 {
		last := res.Bars[n-1]
		res.Last = OHLC{
			Open:  int64(last.Open),
			High:  int64(last.High),
			Low:   int64(last.Low),
			Close: int64(last.Close),
		}
	}

	return res
}

// numberAt returns values[i] when it is present and numeric
func numberAt(values []any, i int) (float64, bool) {
	if i >= len(values) {
		return 0, false
	}
	switch n := values[i].(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func calendarDay(ts int64, loc *time.Location) time.Time {
	t := time.Unix(ts, 0).In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

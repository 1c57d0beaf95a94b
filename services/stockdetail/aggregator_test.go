package stockdetail

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"roboadvisor_backend/models"
	"roboadvisor_backend/repository"
	"roboadvisor_backend/services/marketdata"
	"roboadvisor_backend/services/news"
)

type fakeStocks map[string]models.Stock

func (f fakeStocks) FindByStockID(_ context.Context, id string) (*models.Stock, error) {
	s, ok := f[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

type fakeSeries struct {
	result marketdata.SeriesResult
	err    error
	symbol string
}

func (f *fakeSeries) Series(_ context.Context, symbol string) (marketdata.SeriesResult, error) {
	f.symbol = symbol
	return f.result, f.err
}

type newsFunc func(ctx context.Context, keyword string) []news.Item

func (f newsFunc) Search(ctx context.Context, keyword string) []news.Item { return f(ctx, keyword) }

func thirtyBars() marketdata.SeriesResult {
	bars := make([]marketdata.Bar, 30)
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		c := 50000 + float64(i%7)*300 + float64(i)*40
		bars[i] = marketdata.Bar{Date: start.AddDate(0, 0, i), Open: c - 100, High: c + 200, Low: c - 300, Close: c, Volume: 1000}
	}
	last := bars[len(bars)-1]
	return marketdata.SeriesResult{
		Bars:          bars,
		Price:         int64(last.Close),
		PreviousClose: bars[len(bars)-2].Close,
		ChangeAmount:  int64(last.Close - bars[len(bars)-2].Close),
		ChangePercent: 1.2,
		Last:          marketdata.OHLC{Open: int64(last.Open), High: int64(last.High), Low: int64(last.Low), Close: int64(last.Close)},
	}
}

var exampleCorp = fakeStocks{"123450": {StockID: "123450", TickerSymbol: "A123450", StockName: "ExampleCorp", Market: "KOSPI"}}

func TestGetDetail_NewsTimesOut(t *testing.T) {
	series := &fakeSeries{result: thirtyBars()}
	slowNews := newsFunc(func(ctx context.Context, _ string) []news.Item {
		time.Sleep(2 * time.Second)
		return []news.Item{{Title: "late"}}
	})

	agg := NewAggregator(exampleCorp, series, slowNews, ".KS", 100*time.Millisecond)

	start := time.Now()
	d, err := agg.GetDetail(context.Background(), "123450")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("join did not respect the ceiling: %s", elapsed)
	}

	if series.symbol != "123450.KS" {
		t.Errorf("expected feed symbol 123450.KS, got %s", series.symbol)
	}
	if d.Name != "ExampleCorp" || d.Ticker != "123450" || d.ForeignTicker != "A123450" {
		t.Errorf("unexpected identity: %+v", d)
	}
	if d.Tech.RSI <= 0 || d.Tech.RSI > 100 || d.Tech.MA20 == 0 {
		t.Errorf("expected populated tech, got %+v", d.Tech)
	}
	if len(d.Chart) != 30 {
		t.Errorf("expected 30 chart points, got %d", len(d.Chart))
	}
	if d.OHLC.Open == 0 || d.OHLC.High == 0 {
		t.Errorf("expected populated ohlc, got %+v", d.OHLC)
	}
	if d.News == nil || len(d.News) != 0 {
		t.Errorf("expected empty news, got %v", d.News)
	}
	if len(d.Reports) != 2 || d.Reports[0].Broker != "NH투자증권" {
		t.Errorf("expected static reports, got %+v", d.Reports)
	}

	raw, _ := json.Marshal(d)
	if !strings.Contains(string(raw), `"news":[]`) {
		t.Errorf("expected news to serialize as [], got %s", raw)
	}
	if strings.Contains(string(raw), `"close"`) {
		t.Errorf("ohlc must not expose close: %s", raw)
	}
}

func TestGetDetail_BothBranches(t *testing.T) {
	series := &fakeSeries{result: thirtyBars()}
	var keyword string
	headlines := newsFunc(func(_ context.Context, kw string) []news.Item {
		keyword = kw
		return []news.Item{{Title: "a"}, {Title: "b"}, {Title: "c"}, {Title: "d"}}
	})

	d, err := NewAggregator(exampleCorp, series, headlines, ".KS", time.Second).GetDetail(context.Background(), "123450")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if keyword != "ExampleCorp" {
		t.Errorf("expected news searched by stock name, got %q", keyword)
	}
	if len(d.News) != 3 || d.News[2] != "c" {
		t.Errorf("expected first 3 titles, got %v", d.News)
	}
	if d.Price != thirtyBars().Price {
		t.Errorf("expected price %d, got %d", thirtyBars().Price, d.Price)
	}
}

func TestGetDetail_SeriesFailureDegrades(t *testing.T) {
	series := &fakeSeries{err: errors.New("upstream down")}
	none := newsFunc(func(context.Context, string) []news.Item { return []news.Item{} })

	d, err := NewAggregator(exampleCorp, series, none, ".KS", time.Second).GetDetail(context.Background(), "123450")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Price != 0 || d.Tech != (Tech{}) || d.Chart == nil || len(d.Chart) != 0 {
		t.Errorf("expected degraded tech branch, got %+v", d)
	}
}

func TestGetDetail_NewsPanicDegrades(t *testing.T) {
	series := &fakeSeries{result: thirtyBars()}
	boom := newsFunc(func(context.Context, string) []news.Item { panic("boom") })

	d, err := NewAggregator(exampleCorp, series, boom, ".KS", time.Second).GetDetail(context.Background(), "123450")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(d.News) != 0 || len(d.Chart) != 30 {
		t.Errorf("unexpected detail after panic: %+v", d)
	}
}

func TestGetDetail_NotFound(t *testing.T) {
	agg := NewAggregator(exampleCorp, &fakeSeries{}, newsFunc(func(context.Context, string) []news.Item { return nil }), ".KS", time.Second)

	_, err := agg.GetDetail(context.Background(), "999999")
	if !errors.Is(err, ErrStockNotFound) || !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrStockNotFound, got %v", err)
	}
	if _, err := agg.GetTechIndicators(context.Background(), "999999"); !errors.Is(err, ErrStockNotFound) {
		t.Fatalf("expected ErrStockNotFound, got %v", err)
	}
}

func TestGetTechIndicators(t *testing.T) {
	series := &fakeSeries{result: thirtyBars()}
	agg := NewAggregator(exampleCorp, series, nil, ".KS", time.Second)

	td, err := agg.GetTechIndicators(context.Background(), "123450")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(td.Chart) != 30 || td.Tech.MA20 == 0 {
		t.Errorf("unexpected tech detail: %+v", td)
	}

	raw, _ := json.Marshal(td)
	for _, field := range []string{`"name"`, `"news"`, `"reports"`, `"price"`} {
		if strings.Contains(string(raw), field) {
			t.Errorf("tech response should not carry %s: %s", field, raw)
		}
	}
}

// Package stockdetail assembles the stock detail page from price history and news.
package stockdetail

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"roboadvisor_backend/models"
	"roboadvisor_backend/repository"
	"roboadvisor_backend/services/analysis"
	"roboadvisor_backend/services/marketdata"
	"roboadvisor_backend/services/news"
)

// DefaultCeiling bounds the whole detail join
const DefaultCeiling = 30 * time.Second

// NewsTitleLimit is the number of headlines shown on the detail page
const NewsTitleLimit = 3

// ErrStockNotFound is returned for an unknown stock code
var ErrStockNotFound = fmt.Errorf("stock not found: %w", repository.ErrNotFound)

// StockLookup resolves a stock code to its catalog row
type StockLookup interface {
	FindByStockID(ctx context.Context, stockID string) (*models.Stock, error)
}

// SeriesSource provides the daily bar series for a feed symbol
type SeriesSource interface {
	Series(ctx context.Context, symbol string) (marketdata.SeriesResult, error)
}

// NewsSearcher provides recent articles for a keyword
type NewsSearcher interface {
	Search(ctx context.Context, keyword string) []news.Item
}

// Tech is the indicator block of the detail page
type Tech struct {
	RSI  float64 `json:"rsi"`
	MACD float64 `json:"macd"`
	MA20 float64 `json:"ma20"`
}

// Report is a broker target price
type Report struct {
	Broker string `json:"broker"`
	Target string `json:"target"`
	Stance string `json:"stance"`
}

// Detail is the stock detail response
type Detail struct {
	Name          string          `json:"name"`
	Ticker        string          `json:"ticker"`
	ForeignTicker string          `json:"foreignTicker"`
	Price         int64           `json:"price"`
	ChangePct     float64         `json:"changePct"`
	ChangeAmt     int64           `json:"changeAmt"`
	OHLC          marketdata.OHLC `json:"ohlc"`
	Tech          Tech            `json:"tech"`
	Chart         []float64       `json:"chart"`
	News          []string        `json:"news"`
	Reports       []Report        `json:"reports"`
}

// TechDetail is the indicator-only response
type TechDetail struct {
	Tech  Tech      `json:"tech"`
	Chart []float64 `json:"chart"`
}

// StaticReports is served until a broker report source is connected
func StaticReports() []Report {
	return []Report{
		{Broker: "NH투자증권", Target: "95,000원", Stance: "매수"},
		{Broker: "한국투자증권", Target: "90,000원", Stance: "매수"},
	}
}

type techResult struct {
	series     marketdata.SeriesResult
	indicators analysis.IndicatorSet
}

func emptyTech() techResult {
	return techResult{
		series:     marketdata.SeriesResult{Bars: []marketdata.Bar{}},
		indicators: analysis.EmptyIndicators(),
	}
}

// Aggregator joins the price-history and news branches for one stock
type Aggregator struct {
	stocks  StockLookup
	series  SeriesSource
	news    NewsSearcher
	suffix  string
	ceiling time.Duration
}

// NewAggregator creates an aggregator. A zero ceiling uses DefaultCeiling.
func NewAggregator(stocks StockLookup, series SeriesSource, newsSearcher NewsSearcher, symbolSuffix string, ceiling time.Duration) *Aggregator {
	if ceiling <= 0 {
		ceiling = DefaultCeiling
	}
	return &Aggregator{
		stocks:  stocks,
		series:  series,
		news:    newsSearcher,
		suffix:  symbolSuffix,
		ceiling: ceiling,
	}
}

// GetDetail runs both branches concurrently and waits for both, bounded by the ceiling
func (a *Aggregator) GetDetail(ctx context.Context, stockID string) (*Detail, error) {
	stock, err := a.lookup(ctx, stockID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, a.ceiling)
	defer cancel()

	techCh := make(chan techResult, 1)
	newsCh := make(chan []news.Item, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[ERROR] tech branch panicked for %s: %v", stockID, r)
				techCh <- emptyTech()
			}
		}()
		techCh <- a.techBranch(ctx, stock.StockID)
	}()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[ERROR] news branch panicked for %s: %v", stockID, r)
				newsCh <- []news.Item{}
			}
		}()
		newsCh <- a.news.Search(ctx, stock.StockName)
	}()

	tech := emptyTech()
	items := []news.Item{}
	for pending := 2; pending > 0; {
		select {
		case t := <-techCh:
			tech = t
			techCh = nil
			pending--
		case n := <-newsCh:
			if n != nil {
				items = n
			}
			newsCh = nil
			pending--
		case <-ctx.Done():
			log.Printf("[WARN] detail for %s hit the %s ceiling with %d branch(es) pending", stockID, a.ceiling, pending)
			pending = 0
		}
	}

	s := tech.series
	return &Detail{
		Name:          stock.StockName,
		Ticker:        stock.StockID,
		ForeignTicker: stock.TickerSymbol,
		Price:         s.Price,
		ChangePct:     s.ChangePercent,
		ChangeAmt:     s.ChangeAmount,
		OHLC:          s.Last,
		Tech:          techOf(tech.indicators),
		Chart:         tech.indicators.Chart,
		News:          news.Titles(items, NewsTitleLimit),
		Reports:       StaticReports(),
	}, nil
}

// GetTechIndicators runs the price-history branch only
func (a *Aggregator) GetTechIndicators(ctx context.Context, stockID string) (*TechDetail, error) {
	stock, err := a.lookup(ctx, stockID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, a.ceiling)
	defer cancel()

	tech := a.techBranch(ctx, stock.StockID)
	log.Printf("[INFO] indicators %s: rsi=%.2f macd=%.2f ma20=%.2f",
		stock.StockID, tech.indicators.RSI, tech.indicators.MACD, tech.indicators.MA20)

	return &TechDetail{
		Tech:  techOf(tech.indicators),
		Chart: tech.indicators.Chart,
	}, nil
}

func (a *Aggregator) lookup(ctx context.Context, stockID string) (*models.Stock, error) {
	stock, err := a.stocks.FindByStockID(ctx, stockID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrStockNotFound, stockID)
		}
		return nil, fmt.Errorf("failed to load stock %s: %w", stockID, err)
	}
	return stock, nil
}

func (a *Aggregator) techBranch(ctx context.Context, stockID string) techResult {
	symbol := marketdata.FeedSymbol(stockID, a.suffix)
	series, err := a.series.Series(ctx, symbol)
	if err != nil {
		log.Printf("[WARN] price history for %s unavailable: %v", symbol, err)
		return emptyTech()
	}
	return techResult{series: series, indicators: analysis.Compute(series.Bars)}
}

func techOf(set analysis.IndicatorSet) Tech {
	return Tech{RSI: set.RSI, MACD: set.MACD, MA20: set.MA20}
}

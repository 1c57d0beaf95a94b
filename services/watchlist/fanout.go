package watchlist

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"roboadvisor_backend/services/quote"
)

// DefaultFanOutLimit bounds concurrent quote requests per watchlist
const DefaultFanOutLimit = 8

// QuoteFetcher returns a live snapshot; it never fails
type QuoteFetcher interface {
	Fetch(ctx context.Context, stockID, stockName string) quote.Snapshot
}

// Item identifies one watched stock
type Item struct {
	StockID   string
	StockName string
}

// FanOut fetches a snapshot for every item and waits for all of them.
// The result has one snapshot per item, in completion order.
func FanOut(ctx context.Context, fetcher QuoteFetcher, items []Item, limit int) []quote.Snapshot {
	if limit <= 0 {
		limit = DefaultFanOutLimit
	}

	var (
		mu      sync.Mutex
		results = make([]quote.Snapshot, 0, len(items))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, it := range items {
		g.Go(func() error {
			snap := fetcher.Fetch(gctx, it.StockID, it.StockName)
			mu.Lock()
			results = append(results, snap)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return results
}

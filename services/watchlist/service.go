// Package watchlist serves user watchlists with live quotes.
package watchlist

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"roboadvisor_backend/models"
	"roboadvisor_backend/repository"
	"roboadvisor_backend/services/quote"
)

var (
	// ErrUserNotFound is returned when adding for an unknown user
	ErrUserNotFound = fmt.Errorf("user not found: %w", repository.ErrNotFound)
	// ErrStockNotFound is returned when adding an unknown stock
	ErrStockNotFound = fmt.Errorf("stock not found: %w", repository.ErrNotFound)
)

// WatchlistStore persists watchlist rows
type WatchlistStore interface {
	FindByUserWithStock(ctx context.Context, userID string) ([]models.UserWatchlist, error)
	Exists(ctx context.Context, userID, stockID string) (bool, error)
	Create(ctx context.Context, userID, stockID string) error
	Delete(ctx context.Context, userID, stockID string) error
}

// UserStore resolves users and records their activity
type UserStore interface {
	FindByID(ctx context.Context, userID string) (*models.User, error)
	TouchActivity(ctx context.Context, userID string, at time.Time) error
}

// StockStore resolves stock codes
type StockStore interface {
	FindByStockID(ctx context.Context, stockID string) (*models.Stock, error)
}

// Service implements watchlist reads and writes
type Service struct {
	watchlists WatchlistStore
	users      UserStore
	stocks     StockStore
	quotes     QuoteFetcher
	limit      int
	now        func() time.Time
}

// NewService creates a watchlist service
func NewService(watchlists WatchlistStore, users UserStore, stocks StockStore, quotes QuoteFetcher, fanOutLimit int) *Service {
	return &Service{
		watchlists: watchlists,
		users:      users,
		stocks:     stocks,
		quotes:     quotes,
		limit:      fanOutLimit,
		now:        time.Now,
	}
}

// Get returns live snapshots for every stock on the user's watchlist
func (s *Service) Get(ctx context.Context, userID string) ([]quote.Snapshot, error) {
	rows, err := s.watchlists.FindByUserWithStock(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, Item{StockID: r.Stock.StockID, StockName: r.Stock.StockName})
	}

	snapshots := FanOut(ctx, s.quotes, items, s.limit)
	s.recordActivity(ctx, userID)
	return snapshots, nil
}

// recordActivity runs as its own unit of work; failures are logged only
func (s *Service) recordActivity(ctx context.Context, userID string) {
	ctx = context.WithoutCancel(ctx)
	if err := s.users.TouchActivity(ctx, userID, s.now()); err != nil {
		log.Printf("[WARN] failed to record activity for user %s: %v", userID, err)
	}
}

// Add puts stockID on the user's watchlist. Adding an existing pair succeeds.
func (s *Service) Add(ctx context.Context, userID, stockID string) error {
	exists, err := s.watchlists.Exists(ctx, userID, stockID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrUserNotFound, userID)
		}
		return err
	}
	if _, err := s.stocks.FindByStockID(ctx, stockID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrStockNotFound, stockID)
		}
		return err
	}

	if err := s.watchlists.Create(ctx, userID, stockID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			log.Printf("[WARN] concurrent watchlist add (user: %s, stock: %s): %v", userID, stockID, err)
			return nil
		}
		return err
	}

	log.Printf("[INFO] user %s added %s to watchlist", userID, stockID)
	return nil
}

// Remove deletes stockID from the user's watchlist; removing an absent pair succeeds
func (s *Service) Remove(ctx context.Context, userID, stockID string) error {
	return s.watchlists.Delete(ctx, userID, stockID)
}

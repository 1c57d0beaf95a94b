package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"roboadvisor_backend/models"
)

// WatchlistRepository manages user watchlist rows
type WatchlistRepository struct {
	db *gorm.DB
}

// NewWatchlistRepository creates a watchlist repository
func NewWatchlistRepository(db *gorm.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

// FindByUserWithStock returns the user's watchlist with stocks loaded in the same query
func (r *WatchlistRepository) FindByUserWithStock(ctx context.Context, userID string) ([]models.UserWatchlist, error) {
	items := []models.UserWatchlist{}
	err := r.db.WithContext(ctx).
		Joins("Stock").
		Where("user_watchlist.user_id = ?", userID).
		Order("user_watchlist.added_at").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load watchlist for %s: %w", userID, err)
	}
	return items, nil
}

// Exists reports whether the pair is already on the watchlist
func (r *WatchlistRepository) Exists(ctx context.Context, userID, stockID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.UserWatchlist{}).
		Where("user_id = ? AND stock_id = ?", userID, stockID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check watchlist: %w", err)
	}
	return count > 0, nil
}

// Create inserts a watchlist row. A duplicate pair surfaces as gorm.ErrDuplicatedKey.
func (r *WatchlistRepository) Create(ctx context.Context, userID, stockID string) error {
	item := &models.UserWatchlist{UserID: userID, StockID: stockID}
	if err := r.db.WithContext(ctx).Omit("Stock").Create(item).Error; err != nil {
		return fmt.Errorf("failed to add %s to watchlist: %w", stockID, err)
	}
	return nil
}

// Delete removes the pair from the watchlist; missing rows are not an error
func (r *WatchlistRepository) Delete(ctx context.Context, userID, stockID string) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND stock_id = ?", userID, stockID).
		Delete(&models.UserWatchlist{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove %s from watchlist: %w", stockID, err)
	}
	return nil
}

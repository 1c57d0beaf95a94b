package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"roboadvisor_backend/models"
)

// ErrNotFound is returned when a keyed lookup matches no row
var ErrNotFound = errors.New("record not found")

// StockRepository reads and seeds the stock master table
type StockRepository struct {
	db *gorm.DB
}

// NewStockRepository creates a stock repository
func NewStockRepository(db *gorm.DB) *StockRepository {
	return &StockRepository{db: db}
}

// FindByStockID returns the stock with the given short code
func (r *StockRepository) FindByStockID(ctx context.Context, stockID string) (*models.Stock, error) {
	var stock models.Stock
	err := r.db.WithContext(ctx).Where("stock_id = ?", stockID).First(&stock).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("stock %s: %w", stockID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load stock %s: %w", stockID, err)
	}
	return &stock, nil
}

// SearchByName returns up to limit stocks whose name contains query, ignoring case
func (r *StockRepository) SearchByName(ctx context.Context, query string, limit int) ([]models.Stock, error) {
	stocks := []models.Stock{}
	err := r.db.WithContext(ctx).
		Where("LOWER(stock_name) LIKE LOWER(?)", "%"+query+"%").
		Order("stock_name").
		Limit(limit).
		Find(&stocks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search stocks: %w", err)
	}
	return stocks, nil
}

// Count returns the number of stocks in the master table
func (r *StockRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Stock{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count stocks: %w", err)
	}
	return count, nil
}

// SaveAll inserts stocks in batches
func (r *StockRepository) SaveAll(ctx context.Context, stocks []models.Stock) error {
	if len(stocks) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(stocks, 500).Error; err != nil {
		return fmt.Errorf("failed to save stocks: %w", err)
	}
	return nil
}

package models

import (
	"gorm.io/gorm"
)

// Stock is a listed security from the KRX stock master
type Stock struct {
	StockID      string `gorm:"primaryKey;column:stock_id;size:20" json:"stockId"`  // short code, e.g. 005930
	TickerSymbol string `gorm:"column:ticker_symbol;size:20" json:"tickerSymbol"`   // standard code
	StockName    string `gorm:"column:stock_name;index;not null" json:"stockName"`
	Market       string `gorm:"column:market;size:20" json:"market"` // KOSPI, KOSDAQ, KONEX
}

// TableName overrides the default pluralized table name
func (Stock) TableName() string {
	return "stock"
}

// MigrateStockModels runs database migrations for stock-related models
func MigrateStockModels(db *gorm.DB) error {
	return db.AutoMigrate(&Stock{})
}

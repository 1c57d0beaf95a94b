package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an anonymous guest user identified by a generated UUID
type User struct {
	UserID         string          `gorm:"primaryKey;column:user_id;size:36" json:"userId"`
	CreatedAt      time.Time       `gorm:"column:created_at" json:"createdAt"`
	LastActivityAt time.Time       `gorm:"column:last_activity_at;index" json:"lastActivityAt"`
	Watchlist      []UserWatchlist `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName overrides the default pluralized table name
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns the id and the initial activity timestamp
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == "" {
		u.UserID = uuid.NewString()
	}
	if u.LastActivityAt.IsZero() {
		u.LastActivityAt = time.Now()
	}
	return nil
}

// UserWatchlist is one tracked stock for one user.
// The (user_id, stock_id) pair is unique.
type UserWatchlist struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	UserID  string    `gorm:"column:user_id;size:36;not null;uniqueIndex:idx_watchlist_user_stock" json:"userId"`
	StockID string    `gorm:"column:stock_id;size:20;not null;uniqueIndex:idx_watchlist_user_stock" json:"stockId"`
	Stock   Stock     `gorm:"foreignKey:StockID;references:StockID" json:"stock,omitempty"`
	AddedAt time.Time `gorm:"column:added_at;autoCreateTime" json:"addedAt"`
}

// TableName overrides the default pluralized table name
func (UserWatchlist) TableName() string {
	return "user_watchlist"
}

// MigrateUserModels runs database migrations for user-related models
func MigrateUserModels(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&UserWatchlist{},
	)
}

// Migrate runs every schema migration in dependency order
func Migrate(db *gorm.DB) error {
	if err := MigrateStockModels(db); err != nil {
		return err
	}
	return MigrateUserModels(db)
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"roboadvisor_backend/models"
)

// UserRepository manages guest users
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new guest user with a generated id
func (r *UserRepository) Create(ctx context.Context) (*models.User, error) {
	user := &models.User{}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// FindByID returns the user with the given id
func (r *UserRepository) FindByID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}
	return &user, nil
}

// TouchActivity records user activity in its own transaction
func (r *UserRepository) TouchActivity(ctx context.Context, userID string, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Model(&models.User{}).
			Where("user_id = ?", userID).
			Update("last_activity_at", at).Error
	})
}

// DeleteInactive removes users whose last activity is older than cutoff,
// together with their watchlists. It returns the number of deleted users.
func (r *UserRepository) DeleteInactive(ctx context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stale := tx.Model(&models.User{}).Select("user_id").Where("last_activity_at < ?", cutoff)
		if err := tx.Where("user_id IN (?)", stale).Delete(&models.UserWatchlist{}).Error; err != nil {
			return err
		}
		res := tx.Where("last_activity_at < ?", cutoff).Delete(&models.User{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete inactive users: %w", err)
	}
	return deleted, nil
}

// Package sqlite contains gorm-backed repositories over the bot's tables.
package sqlite

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kinobot-uz/kinobot/internal/domain"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &userRepository{db: db}
}

// Ensure creates the user row if it does not exist yet
func (r *userRepository) Ensure(ctx context.Context, userID int64) error {
	user := domain.User{UserID: userID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&user).Error
}

// Get returns the user record
func (r *userRepository) Get(ctx context.Context, userID int64) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// MarkValidated sets subscribed=true and last_validated_at=at
func (r *userRepository) MarkValidated(ctx context.Context, userID int64, at time.Time) error {
	user := domain.User{
		UserID:          userID,
		Subscribed:      true,
		LastValidatedAt: &at,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"subscribed", "last_validated_at"}),
		}).
		Create(&user).Error
}

// Invalidate sets subscribed=false leaving last_validated_at untouched
func (r *userRepository) Invalidate(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("user_id = ?", userID).
		UpdateColumn("subscribed", false).Error
}

// Count returns the total number of known users
func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Count(&count).Error
	return count, err
}

// ListIDs returns up to limit user ids ordered by id
func (r *userRepository) ListIDs(ctx context.Context, limit int) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Order("user_id").
		Limit(limit).
		Pluck("user_id", &ids).Error
	return ids, err
}

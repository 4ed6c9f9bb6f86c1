package sqlite

import (
	"context"

	"gorm.io/gorm"

	"github.com/kinobot-uz/kinobot/internal/domain"
)

type pendingRequestRepository struct {
	db *gorm.DB
}

// NewPendingRequestRepository creates a new pending join request repository
func NewPendingRequestRepository(db *gorm.DB) domain.PendingRequestRepository {
	return &pendingRequestRepository{db: db}
}

// Add appends a pending request row. Repeated requests from the same
// user create duplicate rows on purpose.
func (r *pendingRequestRepository) Add(ctx context.Context, req *domain.PendingJoinRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

// ListByUser returns all pending requests recorded for a user
func (r *pendingRequestRepository) ListByUser(ctx context.Context, userID int64) ([]domain.PendingJoinRequest, error) {
	var reqs []domain.PendingJoinRequest
	err := r.db.WithContext(ctx).Find(&reqs, "user_id = ?", userID).Error
	return reqs, err
}

// List returns all pending requests, newest first
func (r *pendingRequestRepository) List(ctx context.Context) ([]domain.PendingJoinRequest, error) {
	var reqs []domain.PendingJoinRequest
	err := r.db.WithContext(ctx).Order("requested_at DESC").Find(&reqs).Error
	return reqs, err
}

// DeleteByID removes one request by id
func (r *pendingRequestRepository) DeleteByID(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.PendingJoinRequest{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrPendingNotFound
	}
	return nil
}

package sqlite

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kinobot-uz/kinobot/internal/domain"
)

type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new monitored group repository
func NewGroupRepository(db *gorm.DB) domain.GroupRepository {
	return &groupRepository{db: db}
}

// Save inserts or replaces a monitored group by chat id
func (r *groupRepository) Save(ctx context.Context, group *domain.MonitoredGroup) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "chat_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"username", "title", "invite"}),
		}).
		Create(group).Error
}

// Delete removes a monitored group by chat id
func (r *groupRepository) Delete(ctx context.Context, chatID string) error {
	return r.db.WithContext(ctx).
		Delete(&domain.MonitoredGroup{}, "chat_id = ?", chatID).Error
}

// List returns all monitored groups ordered by chat id
func (r *groupRepository) List(ctx context.Context) ([]domain.MonitoredGroup, error) {
	var groups []domain.MonitoredGroup
	err := r.db.WithContext(ctx).Order("chat_id").Find(&groups).Error
	return groups, err
}

type joinChannelRepository struct {
	db *gorm.DB
}

// NewJoinChannelRepository creates a new join-monitored channel repository
func NewJoinChannelRepository(db *gorm.DB) domain.JoinChannelRepository {
	return &joinChannelRepository{db: db}
}

// Save inserts or replaces a join-monitored channel by chat id
func (r *joinChannelRepository) Save(ctx context.Context, channel *domain.MonitoredJoinChannel) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "chat_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"invite"}),
		}).
		Create(channel).Error
}

// Delete removes a join-monitored channel by chat id
func (r *joinChannelRepository) Delete(ctx context.Context, chatID string) error {
	return r.db.WithContext(ctx).
		Delete(&domain.MonitoredJoinChannel{}, "chat_id = ?", chatID).Error
}

// List returns all join-monitored channels ordered by chat id
func (r *joinChannelRepository) List(ctx context.Context) ([]domain.MonitoredJoinChannel, error) {
	var channels []domain.MonitoredJoinChannel
	err := r.db.WithContext(ctx).Order("chat_id").Find(&channels).Error
	return channels, err
}

// GetByChatID returns the channel with an exact chat id match, nil when
// not monitored
func (r *joinChannelRepository) GetByChatID(ctx context.Context, chatID string) (*domain.MonitoredJoinChannel, error) {
	var channel domain.MonitoredJoinChannel
	err := r.db.WithContext(ctx).First(&channel, "chat_id = ?", chatID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &channel, nil
}

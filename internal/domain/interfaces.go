package domain

import (
	"context"
	"time"
)

// UserRepository stores cached subscription verdicts per user.
type UserRepository interface {
	// Ensure creates the user row if it does not exist yet
	Ensure(ctx context.Context, userID int64) error

	// Get returns the user record, ErrUserNotFound if absent
	Get(ctx context.Context, userID int64) (*User, error)

	// MarkValidated sets subscribed=true and last_validated_at=at
	MarkValidated(ctx context.Context, userID int64, at time.Time) error

	// Invalidate sets subscribed=false leaving last_validated_at untouched
	Invalidate(ctx context.Context, userID int64) error

	// Count returns the total number of known users
	Count(ctx context.Context) (int64, error)

	// ListIDs returns up to limit user ids ordered by id
	ListIDs(ctx context.Context, limit int) ([]int64, error)
}

// GroupRepository stores full-membership monitored groups.
type GroupRepository interface {
	Save(ctx context.Context, group *MonitoredGroup) error
	Delete(ctx context.Context, chatID string) error
	List(ctx context.Context) ([]MonitoredGroup, error)
}

// JoinChannelRepository stores join-request monitored channels.
type JoinChannelRepository interface {
	Save(ctx context.Context, channel *MonitoredJoinChannel) error
	Delete(ctx context.Context, chatID string) error
	List(ctx context.Context) ([]MonitoredJoinChannel, error)

	// GetByChatID returns the monitored channel with an exact chat id match,
	// nil when not monitored
	GetByChatID(ctx context.Context, chatID string) (*MonitoredJoinChannel, error)
}

// PendingRequestRepository stores observed join-request events.
type PendingRequestRepository interface {
	// Add appends a pending request row (no uniqueness constraint)
	Add(ctx context.Context, req *PendingJoinRequest) error

	// ListByUser returns all pending requests recorded for a user
	ListByUser(ctx context.Context, userID int64) ([]PendingJoinRequest, error)

	// List returns all pending requests, newest first
	List(ctx context.Context) ([]PendingJoinRequest, error)

	// DeleteByID removes one request by id, ErrPendingNotFound if absent
	DeleteByID(ctx context.Context, id int64) error
}

// MovieRepository stores the media catalog.
type MovieRepository interface {
	// Save inserts or overwrites a movie by code, preserving the existing
	// download counter on overwrite
	Save(ctx context.Context, movie *Movie) error

	// Delete removes a movie by code, ErrMovieNotFound if absent
	Delete(ctx context.Context, code string) error

	// GetByCode returns the movie for a code, ErrMovieNotFound if absent
	GetByCode(ctx context.Context, code string) (*Movie, error)

	// IncrementDownloads atomically bumps the download counter by one and
	// returns the new value
	IncrementDownloads(ctx context.Context, code string) (int64, error)
}

// SettingsRepository stores generic key/value settings.
type SettingsRepository interface {
	// Get returns the value for a key, ErrSettingNotFound if absent
	Get(ctx context.Context, key string) (string, error)

	// Set upserts the value for a key, last write wins
	Set(ctx context.Context, key, value string) error
}

// ChatClient is the read-only platform query surface used by the
// membership evaluator. Implementations must apply a bounded timeout
// to every call.
type ChatClient interface {
	// GetChat resolves a chat identifier (id, @username, invite URL) to
	// platform chat data
	GetChat(ctx context.Context, identifier string) (*ChatInfo, error)

	// GetMemberStatus returns the user's member status in the chat
	// ("member", "administrator", "creator", "left", ...)
	GetMemberStatus(ctx context.Context, chatID string, userID int64) (string, error)
}

// MovieDeliverer sends catalog files to users and amends their captions.
type MovieDeliverer interface {
	// DeliverMovie sends the movie file with the given caption and the
	// standard share keyboard, returning a reference to the sent message
	DeliverMovie(ctx context.Context, userID int64, movie *Movie, caption string) (MessageRef, error)

	// UpdateCaption rewrites the caption of a previously sent movie message
	UpdateCaption(ctx context.Context, ref MessageRef, movie *Movie, caption string) error
}

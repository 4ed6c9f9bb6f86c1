// Package joinrequest reconciles asynchronous join-request events
// against the monitored-channel registry.
package joinrequest

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kinobot-uz/kinobot/internal/domain"
	"github.com/kinobot-uz/kinobot/internal/invite"
)

// Event is one observed join-request notification.
type Event struct {
	ChatID     int64
	ChatTitle  string
	InviteLink string
	UserID     int64
	Username   string
	FullName   string
}

// Match describes the monitored channel an event was attributed to.
type Match struct {
	ChatID       string
	StoredInvite string
}

// Reconciler records pending join requests for monitored channels and
// ignores everything else.
type Reconciler struct {
	channels domain.JoinChannelRepository
	pending  domain.PendingRequestRepository
	logger   zerolog.Logger
}

// NewReconciler creates a join-request reconciler
func NewReconciler(
	channels domain.JoinChannelRepository,
	pending domain.PendingRequestRepository,
	logger zerolog.Logger,
) *Reconciler {
	return &Reconciler{
		channels: channels,
		pending:  pending,
		logger:   logger,
	}
}

// Reconcile matches the event to a monitored channel by exact chat id,
// then by invite-link token. A nil Match means the event is for a chat
// nobody configured and was ignored without a trace. On a match the
// pending row is recorded before any notification is attempted.
func (r *Reconciler) Reconcile(ctx context.Context, ev Event) (*Match, error) {
	chatID := strconv.FormatInt(ev.ChatID, 10)

	match, err := r.findMatch(ctx, chatID, ev.InviteLink)
	if err != nil {
		return nil, err
	}
	if match == nil {
		r.logger.Info().
			Str("chat_id", chatID).
			Str("invite_link", ev.InviteLink).
			Msg("Join request ignored for unmonitored chat")
		return nil, nil
	}

	req := &domain.PendingJoinRequest{
		ChatID:      chatID,
		UserID:      ev.UserID,
		Username:    ev.Username,
		FullName:    ev.FullName,
		RequestedAt: time.Now().UTC(),
	}
	if err := r.pending.Add(ctx, req); err != nil {
		return nil, err
	}

	r.logger.Info().
		Str("chat_id", chatID).
		Int64("user_id", ev.UserID).
		Msg("Pending join request recorded")
	return match, nil
}

// findMatch looks the chat up by identity first, then scans every
// monitored invite for a canonicalized substring match. The matcher is
// deliberately loose: a longer observed invite embedding a shorter
// stored token matches. First match wins.
func (r *Reconciler) findMatch(ctx context.Context, chatID, inviteLink string) (*Match, error) {
	channel, err := r.channels.GetByChatID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if channel != nil {
		return &Match{ChatID: channel.ChatID, StoredInvite: channel.Invite}, nil
	}

	observed, ok := invite.CompareToken(inviteLink)
	if !ok {
		return nil, nil
	}

	channels, err := r.channels.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, ch := range channels {
		stored, ok := invite.CompareToken(ch.Invite)
		if !ok || stored == "" {
			continue
		}
		if strings.Contains(observed, stored) {
			return &Match{ChatID: ch.ChatID, StoredInvite: ch.Invite}, nil
		}
	}
	return nil, nil
}

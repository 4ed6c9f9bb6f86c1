// Package membership decides whether a user satisfies all configured
// membership requirements and caches positive verdicts.
package membership

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/kinobot-uz/kinobot/internal/domain"
	"github.com/kinobot-uz/kinobot/internal/invite"
)

// maxParallelQueries bounds concurrent platform lookups inside a single
// evaluation.
const maxParallelQueries = 4

// Evaluator computes the set of unsatisfied requirements for a user.
type Evaluator interface {
	Evaluate(ctx context.Context, userID int64) (*domain.Verdict, error)
}

type evaluator struct {
	channels domain.JoinChannelRepository
	groups   domain.GroupRepository
	pending  domain.PendingRequestRepository
	chats    domain.ChatClient
	logger   zerolog.Logger
}

// NewEvaluator creates a membership evaluator backed by live platform queries
func NewEvaluator(
	channels domain.JoinChannelRepository,
	groups domain.GroupRepository,
	pending domain.PendingRequestRepository,
	chats domain.ChatClient,
	logger zerolog.Logger,
) Evaluator {
	return &evaluator{
		channels: channels,
		groups:   groups,
		pending:  pending,
		chats:    chats,
		logger:   logger,
	}
}

// entry is one monitored requirement in evaluation order.
type entry struct {
	chatID   string
	invite   string
	joinOnly bool
}

// Evaluate cross-references pending join requests and live membership
// lookups against every monitored entry. Join-monitored channels come
// first, then groups; the missing list keeps that order. It never
// writes to the store.
func (e *evaluator) Evaluate(ctx context.Context, userID int64) (*domain.Verdict, error) {
	channels, err := e.channels.List(ctx)
	if err != nil {
		return nil, err
	}
	groups, err := e.groups.List(ctx)
	if err != nil {
		return nil, err
	}
	pendings, err := e.pending.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries := make([]entry, 0, len(channels)+len(groups))
	for _, ch := range channels {
		entries = append(entries, entry{chatID: ch.ChatID, invite: ch.Invite, joinOnly: true})
	}
	for _, g := range groups {
		entries = append(entries, entry{chatID: g.ChatID, invite: g.Invite})
	}

	pendingChats := make(map[string]bool, len(pendings))
	for _, p := range pendings {
		pendingChats[p.ChatID] = true
	}

	// Entries are independent; query them in parallel but keep the
	// missing list in entry order.
	satisfied := make([]bool, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelQueries)
	for i := range entries {
		i := i
		g.Go(func() error {
			satisfied[i] = e.entrySatisfied(gctx, userID, entries[i], pendingChats)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	verdict := &domain.Verdict{Satisfied: true}
	for i, en := range entries {
		if satisfied[i] {
			continue
		}
		// report the stored invite value, never a resolved one
		verdict.Missing = append(verdict.Missing, domain.Requirement{
			ChatID: en.chatID,
			Invite: en.invite,
		})
	}
	verdict.Satisfied = len(verdict.Missing) == 0
	return verdict, nil
}

// entrySatisfied checks a single monitored entry. Every platform
// failure maps to unsatisfied: the gate fails closed, never open.
func (e *evaluator) entrySatisfied(ctx context.Context, userID int64, en entry, pendingChats map[string]bool) bool {
	target := en.chatID
	if invite.LooksRaw(en.chatID) {
		info, err := e.chats.GetChat(ctx, en.chatID)
		if err == nil {
			target = strconv.FormatInt(info.ID, 10)
		} else {
			// degraded but non-fatal: keep the stored identifier
			e.logger.Debug().
				Str("chat_id", en.chatID).
				Err(err).
				Msg("Failed to resolve raw chat identifier")
		}
	}

	// a pending join request alone satisfies a join-monitored entry,
	// no live membership query needed
	if en.joinOnly && (pendingChats[en.chatID] || pendingChats[target]) {
		return true
	}

	status, err := e.chats.GetMemberStatus(ctx, target, userID)
	if err != nil {
		e.logger.Debug().
			Int64("user_id", userID).
			Str("chat_id", en.chatID).
			Err(err).
			Msg("Membership query failed, treating as unsatisfied")
		return false
	}

	switch status {
	case domain.MemberStatusMember, domain.MemberStatusAdministrator, domain.MemberStatusCreator:
		return true
	default:
		return false
	}
}

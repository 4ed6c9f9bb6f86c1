package membership

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/kinobot-uz/kinobot/config"
	"github.com/kinobot-uz/kinobot/internal/domain"
)

// Cache wraps the Evaluator with a per-user TTL: a cached positive
// verdict short-circuits live checks until expiry. A negative verdict
// is never served from cache.
type Cache struct {
	users  domain.UserRepository
	eval   Evaluator
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCache creates a validation cache with the configured TTL
func NewCache(
	users domain.UserRepository,
	eval Evaluator,
	cfg *config.ValidationConfig,
	logger zerolog.Logger,
) *Cache {
	return &Cache{
		users:  users,
		eval:   eval,
		ttl:    cfg.TTL,
		logger: logger,
	}
}

// Check returns whether the user currently satisfies all requirements.
// A fresh positive record answers without touching the evaluator or the
// store; anything else runs a live evaluation through Revalidate.
func (c *Cache) Check(ctx context.Context, userID int64, now time.Time) (bool, []domain.Requirement, error) {
	user, err := c.users.Get(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return false, nil, err
	}

	if user != nil && c.fresh(user, now) {
		c.logger.Debug().
			Int64("user_id", userID).
			Time("validated_at", *user.LastValidatedAt).
			Msg("Validation cache hit")
		return true, nil, nil
	}

	return c.Revalidate(ctx, userID, now)
}

// Revalidate forces a live evaluation regardless of cached state and
// records the verdict: satisfied refreshes the cache, unsatisfied
// invalidates it and returns the missing list.
func (c *Cache) Revalidate(ctx context.Context, userID int64, now time.Time) (bool, []domain.Requirement, error) {
	verdict, err := c.eval.Evaluate(ctx, userID)
	if err != nil {
		return false, nil, err
	}

	if verdict.Satisfied {
		if err := c.users.MarkValidated(ctx, userID, now); err != nil {
			return false, nil, err
		}
		c.logger.Info().Int64("user_id", userID).Msg("User validated")
		return true, nil, nil
	}

	if err := c.users.Invalidate(ctx, userID); err != nil {
		return false, nil, err
	}
	c.logger.Info().
		Int64("user_id", userID).
		Int("missing", len(verdict.Missing)).
		Msg("User failed validation")
	return false, verdict.Missing, nil
}

// fresh reports whether a positive verdict is still within the TTL.
func (c *Cache) fresh(user *domain.User, now time.Time) bool {
	return user.Subscribed &&
		user.LastValidatedAt != nil &&
		now.Sub(*user.LastValidatedAt) < c.ttl
}

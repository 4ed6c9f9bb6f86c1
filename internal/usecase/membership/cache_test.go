package membership

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/kinobot-uz/kinobot/config"
	"github.com/kinobot-uz/kinobot/internal/domain"
	repo "github.com/kinobot-uz/kinobot/internal/repository/sqlite"
)

type mockEvaluator struct {
	verdict *domain.Verdict
	err     error
	calls   int
}

func (m *mockEvaluator) Evaluate(context.Context, int64) (*domain.Verdict, error) {
	m.calls++
	return m.verdict, m.err
}

func newTestCache(t *testing.T, eval Evaluator, ttl time.Duration) (*Cache, domain.UserRepository) {
	t.Helper()
	users := repo.NewUserRepository(setupTestDB(t))
	cache := NewCache(users, eval, &config.ValidationConfig{TTL: ttl}, zerolog.Nop())
	return cache, users
}

// TTL=3600s: a verdict cached at t=0 is authoritative at t=3000 (no
// evaluator call) and stale at t=3700 (fresh evaluation).
func TestCheckTTLWindow(t *testing.T) {
	eval := &mockEvaluator{verdict: &domain.Verdict{Satisfied: true}}
	cache, users := newTestCache(t, eval, 3600*time.Second)
	ctx := context.Background()

	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, users.MarkValidated(ctx, 42, start))

	ok, missing, err := cache.Check(ctx, 42, start.Add(3000*time.Second))
	require.NoError(t, err)
	require.True(t, ok)
	require.Empty(t, missing)
	require.Zero(t, eval.calls)

	ok, _, err = cache.Check(ctx, 42, start.Add(3700*time.Second))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, eval.calls)
}

func TestCheckExactTTLBoundaryIsStale(t *testing.T) {
	eval := &mockEvaluator{verdict: &domain.Verdict{Satisfied: true}}
	cache, users := newTestCache(t, eval, time.Hour)
	ctx := context.Background()

	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, users.MarkValidated(ctx, 42, start))

	ok, _, err := cache.Check(ctx, 42, start.Add(time.Hour))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, eval.calls)
}

func TestCheckUnknownUserEvaluates(t *testing.T) {
	eval := &mockEvaluator{verdict: &domain.Verdict{Satisfied: true}}
	cache, _ := newTestCache(t, eval, time.Hour)
	ctx := context.Background()

	now := time.Now().UTC()
	ok, _, err := cache.Check(ctx, 7, now)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, eval.calls)

	// verdict recorded: the next check within TTL is a pure cache hit
	ok, _, err = cache.Check(ctx, 7, now.Add(time.Minute))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, eval.calls)
}

func TestCheckUnsatisfiedInvalidates(t *testing.T) {
	missing := []domain.Requirement{{ChatID: "-100111", Invite: "t.me/kinolar"}}
	eval := &mockEvaluator{verdict: &domain.Verdict{Missing: missing}}
	cache, users := newTestCache(t, eval, time.Hour)
	ctx := context.Background()

	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, users.MarkValidated(ctx, 42, start))

	// expired entry forces a live run which now fails
	ok, got, err := cache.Check(ctx, 42, start.Add(2*time.Hour))
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, missing, got)

	user, err := users.Get(ctx, 42)
	require.NoError(t, err)
	require.False(t, user.Subscribed)
	// timestamp left untouched by invalidation
	require.NotNil(t, user.LastValidatedAt)

	// invalidated state never serves from cache, even inside the old TTL
	eval.verdict = &domain.Verdict{Satisfied: true}
	ok, _, err = cache.Check(ctx, 42, start.Add(time.Minute))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 2, eval.calls)
}

func TestRevalidateForcesEvaluation(t *testing.T) {
	eval := &mockEvaluator{verdict: &domain.Verdict{Satisfied: true}}
	cache, users := newTestCache(t, eval, time.Hour)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, users.MarkValidated(ctx, 42, now))

	ok, _, err := cache.Revalidate(ctx, 42, now)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, eval.calls)
}

package membership

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kinobot-uz/kinobot/internal/domain"
	repo "github.com/kinobot-uz/kinobot/internal/repository/sqlite"
	pkgerrors "github.com/kinobot-uz/kinobot/pkg/errors"
)

// mockChatClient records calls; safe for the evaluator's parallel queries.
type mockChatClient struct {
	mu          sync.Mutex
	getChatFunc func(identifier string) (*domain.ChatInfo, error)
	statusFunc  func(chatID string, userID int64) (string, error)
	statusCalls []string
}

func (m *mockChatClient) GetChat(_ context.Context, identifier string) (*domain.ChatInfo, error) {
	if m.getChatFunc == nil {
		return nil, pkgerrors.NewPlatformError("get chat failed", nil)
	}
	return m.getChatFunc(identifier)
}

func (m *mockChatClient) GetMemberStatus(_ context.Context, chatID string, userID int64) (string, error) {
	m.mu.Lock()
	m.statusCalls = append(m.statusCalls, chatID)
	m.mu.Unlock()
	if m.statusFunc == nil {
		return "left", nil
	}
	return m.statusFunc(chatID, userID)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.MonitoredGroup{},
		&domain.MonitoredJoinChannel{},
		&domain.PendingJoinRequest{},
		&domain.Movie{},
		&domain.Setting{},
	))
	return db
}

func newTestEvaluator(t *testing.T, db *gorm.DB, chats domain.ChatClient) Evaluator {
	t.Helper()
	return NewEvaluator(
		repo.NewJoinChannelRepository(db),
		repo.NewGroupRepository(db),
		repo.NewPendingRequestRepository(db),
		chats,
		zerolog.Nop(),
	)
}

func TestEvaluateAllSatisfied(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&domain.MonitoredGroup{ChatID: "-100111", Invite: "t.me/kinolar"}).Error)

	chats := &mockChatClient{
		statusFunc: func(string, int64) (string, error) { return "member", nil },
	}

	verdict, err := newTestEvaluator(t, db, chats).Evaluate(context.Background(), 42)
	require.NoError(t, err)
	require.True(t, verdict.Satisfied)
	require.Empty(t, verdict.Missing)
}

func TestEvaluateNonMemberIsMissing(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&domain.MonitoredGroup{ChatID: "-100111", Invite: "t.me/kinolar"}).Error)

	chats := &mockChatClient{
		statusFunc: func(string, int64) (string, error) { return "left", nil },
	}

	verdict, err := newTestEvaluator(t, db, chats).Evaluate(context.Background(), 42)
	require.NoError(t, err)
	require.False(t, verdict.Satisfied)
	require.Equal(t, []domain.Requirement{{ChatID: "-100111", Invite: "t.me/kinolar"}}, verdict.Missing)
}

// A platform failure for one entry lands in the missing list instead of
// aborting the whole evaluation.
func TestEvaluateFailsClosed(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&domain.MonitoredGroup{ChatID: "-100111"}).Error)
	require.NoError(t, db.Create(&domain.MonitoredGroup{ChatID: "-100222"}).Error)

	chats := &mockChatClient{
		statusFunc: func(chatID string, _ int64) (string, error) {
			if chatID == "-100111" {
				return "", pkgerrors.NewPlatformError("chat not found", nil)
			}
			return "member", nil
		},
	}

	verdict, err := newTestEvaluator(t, db, chats).Evaluate(context.Background(), 42)
	require.NoError(t, err)
	require.False(t, verdict.Satisfied)
	require.Len(t, verdict.Missing, 1)
	require.Equal(t, "-100111", verdict.Missing[0].ChatID)
}

// A pending join request satisfies a join-monitored channel without any
// live membership query for that chat.
func TestEvaluatePendingRequestSkipsLiveQuery(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&domain.MonitoredJoinChannel{ChatID: "-100333", Invite: "https://t.me/+AbC"}).Error)
	require.NoError(t, db.Create(&domain.PendingJoinRequest{
		ChatID:      "-100333",
		UserID:      42,
		RequestedAt: time.Now().UTC(),
	}).Error)

	chats := &mockChatClient{
		statusFunc: func(string, int64) (string, error) { return "left", nil },
	}

	verdict, err := newTestEvaluator(t, db, chats).Evaluate(context.Background(), 42)
	require.NoError(t, err)
	require.True(t, verdict.Satisfied)
	require.Empty(t, chats.statusCalls)
}

// A full-membership group still requires a live query even when a
// pending request exists for it.
func TestEvaluateGroupIgnoresPendingRequest(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&domain.MonitoredGroup{ChatID: "-100444", Invite: "t.me/kinolar"}).Error)
	require.NoError(t, db.Create(&domain.PendingJoinRequest{
		ChatID:      "-100444",
		UserID:      42,
		RequestedAt: time.Now().UTC(),
	}).Error)

	chats := &mockChatClient{
		statusFunc: func(string, int64) (string, error) { return "left", nil },
	}

	verdict, err := newTestEvaluator(t, db, chats).Evaluate(context.Background(), 42)
	require.NoError(t, err)
	require.False(t, verdict.Satisfied)
	require.Equal(t, []string{"-100444"}, chats.statusCalls)
}

// Raw invite identifiers are resolved before the membership lookup;
// resolution failure degrades to the stored identifier.
func TestEvaluateResolvesRawIdentifier(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&domain.MonitoredGroup{ChatID: "https://t.me/+AbC", Invite: "https://t.me/+AbC"}).Error)

	chats := &mockChatClient{
		getChatFunc: func(identifier string) (*domain.ChatInfo, error) {
			return &domain.ChatInfo{ID: -100555}, nil
		},
		statusFunc: func(chatID string, _ int64) (string, error) {
			if chatID == "-100555" {
				return "member", nil
			}
			return "left", nil
		},
	}

	verdict, err := newTestEvaluator(t, db, chats).Evaluate(context.Background(), 42)
	require.NoError(t, err)
	require.True(t, verdict.Satisfied)
	require.Equal(t, []string{"-100555"}, chats.statusCalls)
}

func TestEvaluateResolutionFailureDegrades(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&domain.MonitoredGroup{ChatID: "https://t.me/+AbC", Invite: "https://t.me/+AbC"}).Error)

	chats := &mockChatClient{
		getChatFunc: func(string) (*domain.ChatInfo, error) {
			return nil, pkgerrors.NewPlatformError("cannot resolve", nil)
		},
		statusFunc: func(chatID string, _ int64) (string, error) {
			require.Equal(t, "https://t.me/+AbC", chatID)
			return "member", nil
		},
	}

	verdict, err := newTestEvaluator(t, db, chats).Evaluate(context.Background(), 42)
	require.NoError(t, err)
	require.True(t, verdict.Satisfied)
}

// Join-monitored channels precede groups in the missing list.
func TestEvaluateMissingOrder(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&domain.MonitoredJoinChannel{ChatID: "-100111", Invite: "https://t.me/+join"}).Error)
	require.NoError(t, db.Create(&domain.MonitoredGroup{ChatID: "-100222", Invite: "t.me/group"}).Error)

	chats := &mockChatClient{
		statusFunc: func(string, int64) (string, error) { return "left", nil },
	}

	verdict, err := newTestEvaluator(t, db, chats).Evaluate(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, []domain.Requirement{
		{ChatID: "-100111", Invite: "https://t.me/+join"},
		{ChatID: "-100222", Invite: "t.me/group"},
	}, verdict.Missing)
}

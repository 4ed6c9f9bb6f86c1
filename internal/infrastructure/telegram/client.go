package telegram

import (
	"context"
	"strconv"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/kinobot-uz/kinobot/internal/domain"
	pkgerrors "github.com/kinobot-uz/kinobot/pkg/errors"
)

// RequestTimeout bounds every outbound platform call so a slow query
// degrades instead of hanging an evaluation.
const RequestTimeout = 10 * time.Second

// ChatClient implements domain.ChatClient on top of the bot wrapper.
type ChatClient struct {
	bot    *tgbot.Bot
	logger zerolog.Logger
}

var _ domain.ChatClient = (*ChatClient)(nil)

// NewChatClient creates a platform query client
func NewChatClient(bot *Bot, logger zerolog.Logger) *ChatClient {
	return &ChatClient{
		bot:    bot.Raw(),
		logger: logger,
	}
}

// GetChat resolves a chat identifier to platform chat data
func (c *ChatClient) GetChat(ctx context.Context, identifier string) (*domain.ChatInfo, error) {
	qctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	chat, err := c.bot.GetChat(qctx, &tgbot.GetChatParams{
		ChatID: chatIDValue(identifier),
	})
	if err != nil {
		return nil, pkgerrors.NewPlatformError("get chat failed", err)
	}

	return &domain.ChatInfo{
		ID:       chat.ID,
		Username: chat.Username,
		Title:    chat.Title,
	}, nil
}

// GetMemberStatus returns the user's member status in the chat
func (c *ChatClient) GetMemberStatus(ctx context.Context, chatID string, userID int64) (string, error) {
	qctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	member, err := c.bot.GetChatMember(qctx, &tgbot.GetChatMemberParams{
		ChatID: chatIDValue(chatID),
		UserID: userID,
	})
	if err != nil {
		return "", pkgerrors.NewPlatformError("get chat member failed", err)
	}

	return memberStatus(member), nil
}

// memberStatus maps the chat member union onto the status strings the
// evaluator compares against.
func memberStatus(member *models.ChatMember) string {
	switch member.Type {
	case models.ChatMemberTypeOwner:
		return domain.MemberStatusCreator
	case models.ChatMemberTypeAdministrator:
		return domain.MemberStatusAdministrator
	case models.ChatMemberTypeMember:
		return domain.MemberStatusMember
	case models.ChatMemberTypeRestricted:
		return "restricted"
	case models.ChatMemberTypeLeft:
		return "left"
	case models.ChatMemberTypeBanned:
		return "kicked"
	default:
		return "unknown"
	}
}

// chatIDValue passes numeric identifiers as int64 and everything else
// (@username, invite URL) as-is.
func chatIDValue(identifier string) any {
	if id, err := strconv.ParseInt(identifier, 10, 64); err == nil {
		return id
	}
	return identifier
}

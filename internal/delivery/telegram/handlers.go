// Package telegram is the delivery layer: update routing, user and
// admin handlers, keyboards and outbound file delivery.
package telegram

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/kinobot-uz/kinobot/config"
	"github.com/kinobot-uz/kinobot/internal/domain"
	infra "github.com/kinobot-uz/kinobot/internal/infrastructure/telegram"
	"github.com/kinobot-uz/kinobot/internal/usecase/adminflow"
	"github.com/kinobot-uz/kinobot/internal/usecase/catalog"
	"github.com/kinobot-uz/kinobot/internal/usecase/joinrequest"
	"github.com/kinobot-uz/kinobot/internal/usecase/membership"
	"github.com/kinobot-uz/kinobot/internal/usecase/redemption"
)

// Handlers wires bot updates to the use cases.
type Handlers struct {
	bot     *tgbot.Bot
	wrapped *infra.Bot
	logger  zerolog.Logger
	adminID int64

	users    domain.UserRepository
	groups   domain.GroupRepository
	channels domain.JoinChannelRepository
	pending  domain.PendingRequestRepository
	chats    domain.ChatClient

	cache      *membership.Cache
	sequencer  *redemption.Sequencer
	catalog    *catalog.Service
	flows      *adminflow.Store
	reconciler *joinrequest.Reconciler
}

// NewHandlers creates the delivery handlers
func NewHandlers(
	bot *infra.Bot,
	cfg *config.TelegramConfig,
	logger zerolog.Logger,
	users domain.UserRepository,
	groups domain.GroupRepository,
	channels domain.JoinChannelRepository,
	pending domain.PendingRequestRepository,
	chats domain.ChatClient,
	cache *membership.Cache,
	sequencer *redemption.Sequencer,
	catalogService *catalog.Service,
	flows *adminflow.Store,
	reconciler *joinrequest.Reconciler,
) *Handlers {
	return &Handlers{
		bot:        bot.Raw(),
		wrapped:    bot,
		logger:     logger,
		adminID:    cfg.AdminID,
		users:      users,
		groups:     groups,
		channels:   channels,
		pending:    pending,
		chats:      chats,
		cache:      cache,
		sequencer:  sequencer,
		catalog:    catalogService,
		flows:      flows,
		reconciler: reconciler,
	}
}

// Register installs all update handlers on the bot. Match functions are
// kept mutually exclusive with the registered commands because the bot
// library checks handlers in unspecified order. Join-request updates
// are not messages, so they go through the wrapper's default-handler
// dispatch instead of a registered handler.
func (h *Handlers) Register() {
	h.bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/start", tgbot.MatchTypePrefix, h.handleStart)
	h.bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/pending", tgbot.MatchTypeExact, h.handlePending)
	h.bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/remove_pending", tgbot.MatchTypePrefix, h.handleRemovePending)

	h.bot.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, "check_sub", tgbot.MatchTypeExact, h.handleCheckSub)
	h.bot.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, "movie:hide:", tgbot.MatchTypePrefix, h.handleMovieHide)
	h.bot.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, "dummy:", tgbot.MatchTypePrefix, h.handleDummy)

	h.wrapped.OnJoinRequest(h.handleJoinRequest)

	h.bot.RegisterHandlerMatchFunc(h.matchAdminMessage, h.handleAdminMessage)
	h.bot.RegisterHandlerMatchFunc(h.matchUserMessage, h.handleUserMessage)

	h.logger.Info().Msg("All update handlers registered")
}

// sendText sends a plain text message, logging failures instead of
// propagating them.
func (h *Handlers) sendText(ctx context.Context, chatID int64, text string, markup models.ReplyMarkup) {
	sctx, cancel := context.WithTimeout(ctx, infra.RequestTimeout)
	defer cancel()

	_, err := h.bot.SendMessage(sctx, &tgbot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: markup,
	})
	if err != nil {
		h.logger.Warn().
			Int64("chat_id", chatID).
			Err(err).
			Msg("Failed to send message")
	}
}

// answerCallback acknowledges a callback query, best effort.
func (h *Handlers) answerCallback(ctx context.Context, callbackID, text string, alert bool) {
	actx, cancel := context.WithTimeout(ctx, infra.RequestTimeout)
	defer cancel()

	_, err := h.bot.AnswerCallbackQuery(actx, &tgbot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       alert,
	})
	if err != nil {
		h.logger.Debug().Err(err).Msg("Failed to answer callback query")
	}
}

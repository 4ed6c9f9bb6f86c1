// Package telegram contains Telegram bot infrastructure
package telegram

import (
	"context"
	"fmt"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
)

// Bot wraps the Telegram bot for the infrastructure layer
type Bot struct {
	bot    *tgbot.Bot
	logger zerolog.Logger

	joinRequests tgbot.HandlerFunc
}

// NewBot creates a new Telegram bot wrapper. Handler registration
// happens later through Raw() and OnJoinRequest; the wrapper installs
// its own default handler because chat-join-request updates are
// neither messages nor callback queries, so the library never routes
// them to registered handlers.
func NewBot(token string, logger zerolog.Logger, opts ...tgbot.Option) (*Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram token is required")
	}

	b := &Bot{logger: logger}

	opts = append(opts, tgbot.WithDefaultHandler(b.dispatchDefault))

	bot, err := tgbot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	b.bot = bot

	logger.Info().Msg("Telegram bot created successfully")

	return b, nil
}

// OnJoinRequest installs the handler for chat-join-request updates.
// Must be called before Start.
func (b *Bot) OnJoinRequest(fn tgbot.HandlerFunc) {
	b.joinRequests = fn
}

// dispatchDefault receives every update the library does not route to
// a registered handler and forwards the ones the bot cares about.
func (b *Bot) dispatchDefault(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
	if update.ChatJoinRequest != nil && b.joinRequests != nil {
		b.joinRequests(ctx, bot, update)
	}
}

// Raw returns the underlying telegram bot for handler registration
func (b *Bot) Raw() *tgbot.Bot {
	return b.bot
}

// Start starts the bot (blocking call)
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info().Msg("Starting Telegram bot...")
	b.bot.Start(ctx)
	b.logger.Info().Msg("Telegram bot stopped")
	return nil
}

// Stop stops the bot
func (b *Bot) Stop() error {
	b.logger.Info().Msg("Stopping Telegram bot...")
	return nil
}

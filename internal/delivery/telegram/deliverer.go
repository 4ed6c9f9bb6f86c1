package telegram

import (
	"context"
	"sync"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/kinobot-uz/kinobot/internal/domain"
	infra "github.com/kinobot-uz/kinobot/internal/infrastructure/telegram"
	"github.com/kinobot-uz/kinobot/internal/usecase/catalog"
	pkgerrors "github.com/kinobot-uz/kinobot/pkg/errors"
)

// Deliverer sends catalog files to users with the share keyboard
// attached.
type Deliverer struct {
	bot     *tgbot.Bot
	catalog *catalog.Service
	logger  zerolog.Logger

	mu       sync.Mutex
	username string
}

var _ domain.MovieDeliverer = (*Deliverer)(nil)

// NewDeliverer creates a movie deliverer
func NewDeliverer(bot *infra.Bot, catalogService *catalog.Service, logger zerolog.Logger) *Deliverer {
	return &Deliverer{
		bot:     bot.Raw(),
		catalog: catalogService,
		logger:  logger,
	}
}

// DeliverMovie sends the stored file to the user. Videos go out as
// video messages, everything else as documents.
func (d *Deliverer) DeliverMovie(ctx context.Context, userID int64, movie *domain.Movie, caption string) (domain.MessageRef, error) {
	kb := d.shareKeyboard(ctx, movie)

	sctx, cancel := context.WithTimeout(ctx, infra.RequestTimeout)
	defer cancel()

	var sent *models.Message
	var err error
	if movie.FileType == domain.FileTypeVideo {
		sent, err = d.bot.SendVideo(sctx, &tgbot.SendVideoParams{
			ChatID:      userID,
			Video:       &models.InputFileString{Data: movie.FileID},
			Caption:     caption,
			ParseMode:   models.ParseModeHTML,
			ReplyMarkup: kb,
		})
	} else {
		sent, err = d.bot.SendDocument(sctx, &tgbot.SendDocumentParams{
			ChatID:      userID,
			Document:    &models.InputFileString{Data: movie.FileID},
			Caption:     caption,
			ParseMode:   models.ParseModeHTML,
			ReplyMarkup: kb,
		})
	}
	if err != nil {
		return domain.MessageRef{}, pkgerrors.NewPlatformError("send media failed", err)
	}

	return domain.MessageRef{ChatID: sent.Chat.ID, MessageID: sent.ID}, nil
}

// UpdateCaption rewrites the caption of a delivered movie message.
func (d *Deliverer) UpdateCaption(ctx context.Context, ref domain.MessageRef, movie *domain.Movie, caption string) error {
	kb := d.shareKeyboard(ctx, movie)

	ectx, cancel := context.WithTimeout(ctx, infra.RequestTimeout)
	defer cancel()

	_, err := d.bot.EditMessageCaption(ectx, &tgbot.EditMessageCaptionParams{
		ChatID:      ref.ChatID,
		MessageID:   ref.MessageID,
		Caption:     caption,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: kb,
	})
	if err != nil {
		return pkgerrors.NewPlatformError("edit caption failed", err)
	}
	return nil
}

// shareKeyboard builds the keyboard for a movie message. Share link and
// bot username lookups are best effort.
func (d *Deliverer) shareKeyboard(ctx context.Context, movie *domain.Movie) *models.InlineKeyboardMarkup {
	shareLink, err := d.catalog.ShareLink(ctx)
	if err != nil {
		d.logger.Debug().Err(err).Msg("Failed to read share link")
	}
	return movieKeyboard(movie.Code, movie.Title, shareLink, d.botUsername(ctx))
}

// botUsername resolves the bot's own username once and caches it.
func (d *Deliverer) botUsername(ctx context.Context) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.username != "" {
		return d.username
	}

	gctx, cancel := context.WithTimeout(ctx, infra.RequestTimeout)
	defer cancel()

	me, err := d.bot.GetMe(gctx)
	if err != nil {
		d.logger.Debug().Err(err).Msg("Failed to resolve bot username")
		return ""
	}
	d.username = me.Username
	return d.username
}

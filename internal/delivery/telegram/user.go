package telegram

import (
	"context"
	"regexp"
	"strings"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	infra "github.com/kinobot-uz/kinobot/internal/infrastructure/telegram"
	"github.com/kinobot-uz/kinobot/internal/usecase/redemption"
)

// codeRe matches a redemption code: one to four digits, nothing else.
var codeRe = regexp.MustCompile(`^\d{1,4}$`)

const (
	msgCodeNotFound = "Bunday kod topilmadi."
	msgCodeHint     = "Iltimos kino kodi yuboring. Kod yuborilganda obuna/join holatingiz avtomatik tekshiriladi."
	msgRequirements = "Kodni yuborishdan oldin quyidagi talablarni bajaring (guruh/kanalga a'zo bo'ling yoki join-request yuboring), so'ng ✅ Tekshirishni bosing:"
	msgStillMissing = "❌ Siz hali quyidagilarga a'zo emassiz yoki join-request yubormagansiz:"
	msgCheckOK      = "✅ Tekshiruv muvaffaqiyatli."
	msgCheckOKNext  = "✅ Tekshiruv muvaffaqiyatli. Kino kodini yuboring."
	msgDummyAlert   = "Iltimos havola orqali yoki guruh admini bilan bog'laning."
)

// handleStart ensures the user row exists. The admin additionally gets
// the panel keyboard, in private chat only.
func (h *Handlers) handleStart(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	userID := update.Message.From.ID

	if err := h.users.Ensure(ctx, userID); err != nil {
		h.logger.Error().Int64("user_id", userID).Err(err).Msg("Failed to ensure user")
	}

	if userID != h.adminID {
		return
	}

	if update.Message.Chat.Type != "private" {
		h.sendText(ctx, h.adminID, "Admin panelni private ga yubordim.", adminMainKeyboard())
		h.sendText(ctx, update.Message.Chat.ID, "Admin panelni private ga yubordim.", nil)
		return
	}
	h.sendText(ctx, h.adminID, "Admin panel.", adminMainKeyboard())
}

// matchUserMessage matches free-text messages from everyone except the
// admin. Registered commands are excluded so they keep their own
// handlers; /start with a deep-link payload counts as /start, and the
// admin commands route to their handlers (which ignore non-admins)
// instead of the hint reply.
func (h *Handlers) matchUserMessage(update *models.Update) bool {
	if update.Message == nil || update.Message.From == nil {
		return false
	}
	if update.Message.From.ID == h.adminID {
		return false
	}
	text := strings.TrimSpace(update.Message.Text)
	if strings.HasPrefix(text, "/start") {
		return false
	}
	if text == "/pending" || strings.HasPrefix(text, "/remove_pending") {
		return false
	}
	return true
}

// handleUserMessage treats a short numeric message as a redemption code
// and anything else as noise answered with a hint.
func (h *Handlers) handleUserMessage(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	userID := update.Message.From.ID

	if err := h.users.Ensure(ctx, userID); err != nil {
		h.logger.Error().Int64("user_id", userID).Err(err).Msg("Failed to ensure user")
	}

	text := strings.TrimSpace(update.Message.Text)
	if !codeRe.MatchString(text) {
		h.sendText(ctx, userID, msgCodeHint, nil)
		return
	}

	result, err := h.sequencer.Redeem(ctx, userID, text, time.Now().UTC())
	if err != nil {
		h.logger.Error().
			Int64("user_id", userID).
			Str("code", text).
			Err(err).
			Msg("Redemption failed")
		return
	}

	switch result.Outcome {
	case redemption.OutcomeBlocked:
		h.sendText(ctx, userID, msgRequirements, requirementsKeyboard(result.Missing))
	case redemption.OutcomeNotFound:
		h.sendText(ctx, userID, msgCodeNotFound, nil)
	case redemption.OutcomeDelivered:
		// file already sent and counter bumped, nothing more to say
	}
}

// handleCheckSub re-runs the membership check bypassing the TTL cache
// and edits the requirements message in place.
func (h *Handlers) handleCheckSub(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	userID := cq.From.ID
	defer h.answerCallback(ctx, cq.ID, "", false)

	ok, missing, err := h.cache.Revalidate(ctx, userID, time.Now().UTC())
	if err != nil {
		h.logger.Error().Int64("user_id", userID).Err(err).Msg("Revalidation failed")
		return
	}

	if ok {
		if !h.editText(ctx, cq, msgCheckOK, nil) {
			h.sendText(ctx, userID, msgCheckOK, nil)
		}
		h.sendText(ctx, userID, msgCheckOKNext, nil)
		return
	}

	kb := requirementsKeyboard(missing)
	if !h.editText(ctx, cq, msgStillMissing, kb) {
		h.sendText(ctx, userID, msgStillMissing, kb)
	}
}

// handleMovieHide deletes the delivered movie message.
func (h *Handlers) handleMovieHide(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	defer h.answerCallback(ctx, cq.ID, "", false)

	msg := cq.Message.Message
	if msg == nil {
		return
	}

	dctx, cancel := context.WithTimeout(ctx, infra.RequestTimeout)
	defer cancel()

	_, err := h.bot.DeleteMessage(dctx, &tgbot.DeleteMessageParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
	})
	if err != nil {
		h.logger.Debug().Err(err).Msg("Failed to delete movie message")
	}
}

// handleDummy answers the placeholder button shown when a requirement
// has no usable invite URL.
func (h *Handlers) handleDummy(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	h.answerCallback(ctx, update.CallbackQuery.ID, msgDummyAlert, true)
}

// editText rewrites the message a callback query originated from.
// Returns false when the message is inaccessible or the edit failed.
func (h *Handlers) editText(ctx context.Context, cq *models.CallbackQuery, text string, kb *models.InlineKeyboardMarkup) bool {
	msg := cq.Message.Message
	if msg == nil {
		return false
	}

	ectx, cancel := context.WithTimeout(ctx, infra.RequestTimeout)
	defer cancel()

	params := &tgbot.EditMessageTextParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
		Text:      text,
	}
	if kb != nil {
		params.ReplyMarkup = kb
	}
	if _, err := h.bot.EditMessageText(ectx, params); err != nil {
		h.logger.Debug().Err(err).Msg("Failed to edit message")
		return false
	}
	return true
}

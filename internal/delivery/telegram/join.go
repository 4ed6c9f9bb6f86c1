package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/kinobot-uz/kinobot/internal/usecase/joinrequest"
)

// handleJoinRequest records monitored join requests and notifies the
// admin. It is installed as the wrapper's join-request dispatch since
// these updates bypass registered handlers. The bot never approves
// anything itself.
func (h *Handlers) handleJoinRequest(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	jr := update.ChatJoinRequest

	inviteLink := ""
	if jr.InviteLink != nil {
		inviteLink = jr.InviteLink.InviteLink
	}

	event := joinrequest.Event{
		ChatID:     jr.Chat.ID,
		ChatTitle:  jr.Chat.Title,
		InviteLink: inviteLink,
		UserID:     jr.From.ID,
		Username:   jr.From.Username,
		FullName:   strings.TrimSpace(jr.From.FirstName + " " + jr.From.LastName),
	}

	match, err := h.reconciler.Reconcile(ctx, event)
	if err != nil {
		h.logger.Error().
			Int64("chat_id", event.ChatID).
			Int64("user_id", event.UserID).
			Err(err).
			Msg("Failed to reconcile join request")
		return
	}
	if match == nil {
		return
	}

	h.sendText(ctx, h.adminID, joinNotification(event, match), nil)

	chatLabel := event.ChatTitle
	if chatLabel == "" {
		chatLabel = "kanal/guruh"
	}
	h.sendText(ctx, event.UserID,
		fmt.Sprintf("Siz %s ga qo'shilish uchun ariza yubordingiz. Adminlar arizangizni ko'rib chiqadi.", chatLabel),
		nil)
}

// joinNotification formats the admin alert for a monitored join request.
func joinNotification(ev joinrequest.Event, match *joinrequest.Match) string {
	chatLabel := ev.ChatTitle
	if chatLabel == "" {
		chatLabel = fmt.Sprintf("%d", ev.ChatID)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🔔 Join-request (monitored):\n")
	fmt.Fprintf(&b, "Chat: %s (id: %d)\n", chatLabel, ev.ChatID)
	fmt.Fprintf(&b, "User: %s (id: %d)\n", orDash(ev.FullName), ev.UserID)
	if ev.Username != "" {
		fmt.Fprintf(&b, "Username: @%s\nLink: https://t.me/%s\n", ev.Username, ev.Username)
	}
	if match.StoredInvite != "" {
		fmt.Fprintf(&b, "Invite used: %s\n", match.StoredInvite)
	}
	b.WriteString("\nEslatma: BOT tasdiqlamaydi, adminlar kanal/guruhda qo'lda tasdiqlasin.")
	return b.String()
}

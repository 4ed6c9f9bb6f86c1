package telegram

import (
	"fmt"
	"net/url"

	"github.com/go-telegram/bot/models"

	"github.com/kinobot-uz/kinobot/internal/domain"
	"github.com/kinobot-uz/kinobot/internal/invite"
)

// requirementsKeyboard renders one "Qo'shilish" button per missing
// requirement and a "✅ Tekshirish" button below. Entries without a
// usable invite URL get a dummy callback button instead.
func requirementsKeyboard(missing []domain.Requirement) *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(missing)+1)
	for _, req := range missing {
		if inviteURL, ok := invite.CanonicalURL(req.Invite); ok {
			rows = append(rows, []models.InlineKeyboardButton{
				{Text: "Qo'shilish", URL: inviteURL},
			})
			continue
		}
		rows = append(rows, []models.InlineKeyboardButton{
			{Text: "Qo'shilish", CallbackData: "dummy:" + req.ChatID},
		})
	}
	rows = append(rows, []models.InlineKeyboardButton{
		{Text: "✅ Tekshirish", CallbackData: "check_sub"},
	})
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// movieKeyboard renders the share keyboard attached to delivered files:
// optional codes-link button, a t.me/share prefilled share button and a
// hide button.
func movieKeyboard(code, title, shareLink, botUsername string) *models.InlineKeyboardMarkup {
	shareText := fmt.Sprintf("Kodni yuboring: %s - %s\nKodni olish: %s\nBot: @%s",
		code, title, shareLink, botUsername)
	shareURL := "https://t.me/share/url?url=&text=" + url.QueryEscape(shareText)

	rows := make([][]models.InlineKeyboardButton, 0, 2)
	if linkURL, ok := invite.CanonicalURL(shareLink); ok {
		rows = append(rows, []models.InlineKeyboardButton{
			{Text: "ssilka", URL: linkURL},
		})
	}
	rows = append(rows, []models.InlineKeyboardButton{
		{Text: "🔁 Ulashish", URL: shareURL},
		{Text: "❌ Yashirish", CallbackData: "movie:hide:" + code},
	})
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// adminMainKeyboard is the top-level admin reply keyboard.
func adminMainKeyboard() *models.ReplyKeyboardMarkup {
	return &models.ReplyKeyboardMarkup{
		Keyboard: [][]models.KeyboardButton{
			{{Text: "Add Group"}, {Text: "Remove Group"}},
			{{Text: "Add JoinRequest"}, {Text: "Remove JoinRequest"}},
			{{Text: "List Groups"}, {Text: "List Monitored"}},
			{{Text: "Add Movie"}, {Text: "Remove Movie"}},
			{{Text: "Set Share Link"}, {Text: "Remove Share Link"}},
			{{Text: "Users"}},
		},
		ResizeKeyboard: true,
	}
}

// adminFlowKeyboard is shown while a wizard flow is in progress.
func adminFlowKeyboard() *models.ReplyKeyboardMarkup {
	return &models.ReplyKeyboardMarkup{
		Keyboard: [][]models.KeyboardButton{
			{{Text: "Cancel"}},
		},
		ResizeKeyboard: true,
	}
}

package telegram

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kinobot-uz/kinobot/internal/domain"
)

func TestRequirementsKeyboard(t *testing.T) {
	missing := []domain.Requirement{
		{ChatID: "-100111", Invite: "https://t.me/+AbCdEf"},
		{ChatID: "-100222", Invite: ""},
	}

	kb := requirementsKeyboard(missing)

	require.Len(t, kb.InlineKeyboard, 3)

	require.Equal(t, "Qo'shilish", kb.InlineKeyboard[0][0].Text)
	require.Equal(t, "https://t.me/+AbCdEf", kb.InlineKeyboard[0][0].URL)

	require.Equal(t, "Qo'shilish", kb.InlineKeyboard[1][0].Text)
	require.Equal(t, "dummy:-100222", kb.InlineKeyboard[1][0].CallbackData)
	require.Empty(t, kb.InlineKeyboard[1][0].URL)

	require.Equal(t, "✅ Tekshirish", kb.InlineKeyboard[2][0].Text)
	require.Equal(t, "check_sub", kb.InlineKeyboard[2][0].CallbackData)
}

func TestRequirementsKeyboard_EmptyMissingStillHasCheckButton(t *testing.T) {
	kb := requirementsKeyboard(nil)

	require.Len(t, kb.InlineKeyboard, 1)
	require.Equal(t, "check_sub", kb.InlineKeyboard[0][0].CallbackData)
}

func TestMovieKeyboard_WithShareLink(t *testing.T) {
	kb := movieKeyboard("7", "Film Nomi", "https://t.me/kodlar", "kinobot")

	require.Len(t, kb.InlineKeyboard, 2)
	require.Equal(t, "ssilka", kb.InlineKeyboard[0][0].Text)
	require.Equal(t, "https://t.me/kodlar", kb.InlineKeyboard[0][0].URL)

	require.Equal(t, "🔁 Ulashish", kb.InlineKeyboard[1][0].Text)
	require.Contains(t, kb.InlineKeyboard[1][0].URL, "https://t.me/share/url?url=&text=")
	require.Equal(t, "❌ Yashirish", kb.InlineKeyboard[1][1].Text)
	require.Equal(t, "movie:hide:7", kb.InlineKeyboard[1][1].CallbackData)
}

func TestMovieKeyboard_WithoutShareLink(t *testing.T) {
	kb := movieKeyboard("7", "Film Nomi", "", "kinobot")

	require.Len(t, kb.InlineKeyboard, 1)
	require.Equal(t, "🔁 Ulashish", kb.InlineKeyboard[0][0].Text)
	require.Equal(t, "movie:hide:7", kb.InlineKeyboard[0][1].CallbackData)
}

func TestAdminKeyboards(t *testing.T) {
	main := adminMainKeyboard()
	require.Len(t, main.Keyboard, 6)
	require.True(t, main.ResizeKeyboard)
	require.Equal(t, "Add Group", main.Keyboard[0][0].Text)
	require.Equal(t, "Users", main.Keyboard[5][0].Text)

	flow := adminFlowKeyboard()
	require.Len(t, flow.Keyboard, 1)
	require.Equal(t, "Cancel", flow.Keyboard[0][0].Text)
}

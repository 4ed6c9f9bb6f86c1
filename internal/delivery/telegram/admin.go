package telegram

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/kinobot-uz/kinobot/internal/domain"
	"github.com/kinobot-uz/kinobot/internal/invite"
	"github.com/kinobot-uz/kinobot/internal/usecase/adminflow"
)

// chatIDRe accepts raw numeric chat ids like -1001234567890.
var chatIDRe = regexp.MustCompile(`^-?\d{5,}$`)

// tmeRe recognizes t.me style links submitted where a chat id is also
// acceptable.
var tmeRe = regexp.MustCompile(`(?:https?://)?(?:www\.)?(?:t\.me|telegram\.me)/.+`)

// privateInviteRe accepts invite paths with a token of at least three
// word characters.
var privateInviteRe = regexp.MustCompile(`/[A-Za-z0-9_]{3,}`)

const maxUserListing = 100

// matchAdminMessage matches any admin message not claimed by a
// registered command handler.
func (h *Handlers) matchAdminMessage(update *models.Update) bool {
	if update.Message == nil || update.Message.From == nil {
		return false
	}
	if update.Message.From.ID != h.adminID {
		return false
	}
	text := strings.TrimSpace(update.Message.Text)
	if strings.HasPrefix(text, "/start") || text == "/pending" || strings.HasPrefix(text, "/remove_pending") {
		return false
	}
	return true
}

// handleAdminMessage drives the admin panel: Cancel first, then a
// mid-flow step if one is active, otherwise a top-level panel action.
func (h *Handlers) handleAdminMessage(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg := update.Message
	text := strings.TrimSpace(msg.Text)

	if text == "Cancel" {
		h.flows.Clear(h.adminID)
		h.sendText(ctx, h.adminID, "Operatsiya bekor qilindi.", adminMainKeyboard())
		return
	}

	if state, ok := h.flows.Get(h.adminID); ok {
		h.handleFlowStep(ctx, state, msg, text)
		return
	}

	h.handlePanelAction(ctx, text)
}

// handlePanelAction starts a wizard flow or answers a listing action.
// Starting a new flow overwrites whatever flow was in progress.
func (h *Handlers) handlePanelAction(ctx context.Context, text string) {
	switch text {
	case "Add Group":
		h.flows.Begin(h.adminID, adminflow.State{Action: adminflow.ActionAddGroup, Step: adminflow.StepWaitLink})
		h.sendText(ctx, h.adminID, "Guruh yoki kanal ssilkasi, @username yoki invite yuboring (keyin chat_id so'raladi):", adminFlowKeyboard())
	case "Remove Group":
		h.flows.Begin(h.adminID, adminflow.State{Action: adminflow.ActionRemoveGroup, Step: adminflow.StepWaitLink})
		h.sendText(ctx, h.adminID, "O'chirish uchun ssilka yoki chat_id yuboring:", adminFlowKeyboard())
	case "Add JoinRequest":
		h.flows.Begin(h.adminID, adminflow.State{Action: adminflow.ActionAddJoin, Step: adminflow.StepWaitLink})
		h.sendText(ctx, h.adminID, "JoinRequest monitoring uchun invite/link yuboring (https://t.me/+) keyin chat_id so'raladi:", adminFlowKeyboard())
	case "Remove JoinRequest":
		h.flows.Begin(h.adminID, adminflow.State{Action: adminflow.ActionRemoveJoin, Step: adminflow.StepWaitLink})
		h.sendText(ctx, h.adminID, "JoinRequest monitoringni o'chirish uchun ssilka yoki chat_id yuboring:", adminFlowKeyboard())
	case "List Groups":
		h.listGroups(ctx)
	case "List Monitored":
		h.listMonitored(ctx)
	case "Add Movie":
		h.flows.Begin(h.adminID, adminflow.State{Action: adminflow.ActionAddMovie, Step: adminflow.StepWaitMedia})
		h.sendText(ctx, h.adminID, "Iltimos video yoki fayl yuboring:", adminFlowKeyboard())
	case "Remove Movie":
		h.flows.Begin(h.adminID, adminflow.State{Action: adminflow.ActionRemoveMovie, Step: adminflow.StepWaitCode})
		h.sendText(ctx, h.adminID, "O'chirish uchun kino kodini yuboring:", adminFlowKeyboard())
	case "Set Share Link":
		h.flows.Begin(h.adminID, adminflow.State{Action: adminflow.ActionSetShareLink, Step: adminflow.StepWaitLink})
		h.sendText(ctx, h.adminID, "Iltimos kodni olish uchun ssilkani yuboring (https://... yoki t.me/...):", adminFlowKeyboard())
	case "Remove Share Link":
		h.flows.Begin(h.adminID, adminflow.State{Action: adminflow.ActionRemoveShareLink, Step: adminflow.StepConfirm})
		h.sendText(ctx, h.adminID, "Codes linkni o'chirishni tasdiqlaysizmi? (Cancel bilan bekor qilishingiz mumkin)", adminFlowKeyboard())
	case "Users":
		h.listUsers(ctx)
	}
}

// handleFlowStep advances the active wizard flow by one message.
func (h *Handlers) handleFlowStep(ctx context.Context, state adminflow.State, msg *models.Message, text string) {
	switch {
	case state.Action == adminflow.ActionAddGroup && state.Step == adminflow.StepWaitLink:
		h.stepAddGroupLink(ctx, text)
	case state.Action == adminflow.ActionAddGroup && state.Step == adminflow.StepWaitChatID:
		h.stepAddGroupChatID(ctx, state, text)
	case state.Action == adminflow.ActionRemoveGroup && state.Step == adminflow.StepWaitLink:
		h.stepRemoveGroup(ctx, text)
	case state.Action == adminflow.ActionAddJoin && state.Step == adminflow.StepWaitLink:
		h.stepAddJoinLink(ctx, text)
	case state.Action == adminflow.ActionAddJoin && state.Step == adminflow.StepWaitChatID:
		h.stepAddJoinChatID(ctx, state, text)
	case state.Action == adminflow.ActionRemoveJoin && state.Step == adminflow.StepWaitLink:
		h.stepRemoveJoin(ctx, text)
	case state.Action == adminflow.ActionAddMovie && state.Step == adminflow.StepWaitMedia:
		h.stepAddMovieMedia(ctx, msg)
	case state.Action == adminflow.ActionAddMovie && state.Step == adminflow.StepWaitMeta:
		h.stepAddMovieMeta(ctx, state, text)
	case state.Action == adminflow.ActionRemoveMovie && state.Step == adminflow.StepWaitCode:
		h.stepRemoveMovie(ctx, text)
	case state.Action == adminflow.ActionSetShareLink && state.Step == adminflow.StepWaitLink:
		h.stepSetShareLink(ctx, text)
	case state.Action == adminflow.ActionRemoveShareLink && state.Step == adminflow.StepConfirm:
		h.stepRemoveShareLink(ctx)
	default:
		h.flows.Clear(h.adminID)
		h.sendText(ctx, h.adminID, "Operatsiya bekor qilindi.", adminMainKeyboard())
	}
}

func (h *Handlers) stepAddGroupLink(ctx context.Context, text string) {
	if text == "" {
		h.flows.Clear(h.adminID)
		h.sendText(ctx, h.adminID, "SSilka/identifierni tushunmadim.", adminMainKeyboard())
		return
	}
	norm := text
	if canonical, ok := invite.CanonicalURL(text); ok {
		norm = canonical
	}
	h.flows.Begin(h.adminID, adminflow.State{Action: adminflow.ActionAddGroup, Step: adminflow.StepWaitChatID, Invite: norm})
	h.sendText(ctx, h.adminID,
		fmt.Sprintf("Invite qabul qilindi: %s\nEndi chat_id yuboring (masalan -1001234567890) yoki Cancel.", norm),
		adminFlowKeyboard())
}

func (h *Handlers) stepAddGroupChatID(ctx context.Context, state adminflow.State, text string) {
	h.flows.Clear(h.adminID)

	chatID, ok := parseChatID(text)
	if !ok {
		h.sendText(ctx, h.adminID, "Chat id noto'g'ri. Iltimos -100... formatida yuboring.", adminMainKeyboard())
		return
	}

	group := &domain.MonitoredGroup{ChatID: chatID, Invite: state.Invite}
	reply := fmt.Sprintf("Guruh qo'shildi (chat_id saqlandi): %s", chatID)
	if info, err := h.chats.GetChat(ctx, chatID); err == nil {
		group.ChatID = strconv.FormatInt(info.ID, 10)
		group.Username = info.Username
		group.Title = info.Title
		reply = fmt.Sprintf("Guruh qo'shildi: %d", info.ID)
	}

	if err := h.groups.Save(ctx, group); err != nil {
		h.logger.Error().Err(err).Msg("Failed to save group")
		h.sendText(ctx, h.adminID, fmt.Sprintf("DB xatolik: %v", err), adminMainKeyboard())
		return
	}
	h.sendText(ctx, h.adminID, reply, adminMainKeyboard())
}

func (h *Handlers) stepRemoveGroup(ctx context.Context, text string) {
	h.flows.Clear(h.adminID)

	if tmeRe.MatchString(text) {
		info, err := h.chats.GetChat(ctx, text)
		if err != nil {
			h.sendText(ctx, h.adminID, "Username resolve bo'lmadi; iltimos chat_id yuboring.", adminMainKeyboard())
			return
		}
		if err := h.groups.Delete(ctx, strconv.FormatInt(info.ID, 10)); err != nil {
			h.sendText(ctx, h.adminID, "O'chirishda muammo bo'ldi.", adminMainKeyboard())
			return
		}
		h.sendText(ctx, h.adminID, fmt.Sprintf("Guruh %d dan olib tashlandi.", info.ID), adminMainKeyboard())
		return
	}

	if err := h.groups.Delete(ctx, text); err != nil {
		h.sendText(ctx, h.adminID, "O'chirishda muammo bo'ldi.", adminMainKeyboard())
		return
	}
	h.sendText(ctx, h.adminID, fmt.Sprintf("Guruh %s dan olib tashlandi.", text), adminMainKeyboard())
}

func (h *Handlers) stepAddJoinLink(ctx context.Context, text string) {
	if text == "" {
		h.flows.Clear(h.adminID)
		h.sendText(ctx, h.adminID, "Iltimos invite/link yuboring.", adminMainKeyboard())
		return
	}
	norm := text
	if canonical, ok := invite.CanonicalURL(text); ok {
		norm = canonical
	}

	lower := strings.ToLower(norm)
	if !strings.Contains(lower, "t.me/+") && !strings.Contains(lower, "joinchat") && !privateInviteRe.MatchString(norm) {
		h.flows.Clear(h.adminID)
		h.sendText(ctx, h.adminID,
			fmt.Sprintf("Iltimos private invite (t.me/+) ni yuboring. Siz yuborgan: %s", norm),
			adminMainKeyboard())
		return
	}

	h.flows.Begin(h.adminID, adminflow.State{Action: adminflow.ActionAddJoin, Step: adminflow.StepWaitChatID, Invite: norm})
	h.sendText(ctx, h.adminID,
		fmt.Sprintf("JoinRequest invite qabul qilindi: %s\nEndi chat_id yuboring (masalan -1001234567890) yoki Cancel.", norm),
		adminFlowKeyboard())
}

func (h *Handlers) stepAddJoinChatID(ctx context.Context, state adminflow.State, text string) {
	h.flows.Clear(h.adminID)

	chatID, ok := parseChatID(text)
	if !ok {
		h.sendText(ctx, h.adminID, "Chat id noto'g'ri. Iltimos -100... formatida yuboring.", adminMainKeyboard())
		return
	}
	if info, err := h.chats.GetChat(ctx, chatID); err == nil {
		chatID = strconv.FormatInt(info.ID, 10)
	}

	channel := &domain.MonitoredJoinChannel{ChatID: chatID, Invite: state.Invite}
	if err := h.channels.Save(ctx, channel); err != nil {
		h.logger.Error().Err(err).Msg("Failed to save join channel")
		h.sendText(ctx, h.adminID, fmt.Sprintf("DB xatolik: %v", err), adminMainKeyboard())
		return
	}

	inviteLabel := state.Invite
	if inviteLabel == "" {
		inviteLabel = "-"
	}
	h.sendText(ctx, h.adminID,
		fmt.Sprintf("JoinRequest monitoring qo'shildi: chat_id=%s, invite=%s", chatID, inviteLabel),
		adminMainKeyboard())
}

func (h *Handlers) stepRemoveJoin(ctx context.Context, text string) {
	h.flows.Clear(h.adminID)

	if tmeRe.MatchString(text) {
		info, err := h.chats.GetChat(ctx, text)
		if err != nil {
			if chatIDRe.MatchString(text) {
				if derr := h.channels.Delete(ctx, text); derr == nil {
					h.sendText(ctx, h.adminID, fmt.Sprintf("JoinRequest monitoring %s dan olib tashlandi.", text), adminMainKeyboard())
					return
				}
			}
			h.sendText(ctx, h.adminID, "Username resolve bo'lmadi; iltimos chat_id yuboring.", adminMainKeyboard())
			return
		}
		if derr := h.channels.Delete(ctx, strconv.FormatInt(info.ID, 10)); derr != nil {
			h.sendText(ctx, h.adminID, "O'chirishda muammo.", adminMainKeyboard())
			return
		}
		h.sendText(ctx, h.adminID, fmt.Sprintf("JoinRequest monitoring %d dan olib tashlandi.", info.ID), adminMainKeyboard())
		return
	}

	if err := h.channels.Delete(ctx, text); err != nil {
		h.sendText(ctx, h.adminID, "O'chirishda muammo.", adminMainKeyboard())
		return
	}
	h.sendText(ctx, h.adminID, "JoinRequest monitoring olib tashlandi.", adminMainKeyboard())
}

func (h *Handlers) stepAddMovieMedia(ctx context.Context, msg *models.Message) {
	var fileID, fileType string
	switch {
	case msg.Video != nil:
		fileID, fileType = msg.Video.FileID, domain.FileTypeVideo
	case msg.Document != nil:
		fileID, fileType = msg.Document.FileID, domain.FileTypeDocument
	case msg.Animation != nil:
		fileID, fileType = msg.Animation.FileID, domain.FileTypeAnimation
	default:
		h.flows.Clear(h.adminID)
		h.sendText(ctx, h.adminID, "Iltimos video yoki fayl yuboring.", adminMainKeyboard())
		return
	}

	h.flows.Begin(h.adminID, adminflow.State{
		Action:   adminflow.ActionAddMovie,
		Step:     adminflow.StepWaitMeta,
		FileID:   fileID,
		FileType: fileType,
	})
	h.sendText(ctx, h.adminID,
		"Endi kinoning nomi va (ixtiyoriy) ma'lumot yuboring (sarlavha birinchi non-empty qator). Bir nechta qator bo'lishi mumkin.",
		adminFlowKeyboard())
}

func (h *Handlers) stepAddMovieMeta(ctx context.Context, state adminflow.State, text string) {
	h.flows.Clear(h.adminID)

	movie, err := h.catalog.AddMovie(ctx, state.FileID, state.FileType, text)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to save movie")
		h.sendText(ctx, h.adminID, fmt.Sprintf("DB xatolik: %v", err), adminMainKeyboard())
		return
	}
	h.sendText(ctx, h.adminID, fmt.Sprintf("🎬 Kino saqlandi. Kod: %s", movie.Code), adminMainKeyboard())
}

func (h *Handlers) stepRemoveMovie(ctx context.Context, text string) {
	h.flows.Clear(h.adminID)

	err := h.catalog.RemoveMovie(ctx, text)
	if errors.Is(err, domain.ErrMovieNotFound) {
		h.sendText(ctx, h.adminID, "❌ Bunday kod topilmadi.", adminMainKeyboard())
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to remove movie")
		h.sendText(ctx, h.adminID, fmt.Sprintf("DB xatolik: %v", err), adminMainKeyboard())
		return
	}
	h.sendText(ctx, h.adminID, fmt.Sprintf("🗑️ Kino %s o'chirildi.", text), adminMainKeyboard())
}

func (h *Handlers) stepSetShareLink(ctx context.Context, text string) {
	h.flows.Clear(h.adminID)

	link, err := h.catalog.SetShareLink(ctx, text)
	if err != nil {
		h.sendText(ctx, h.adminID, "Noto'g'ri format. Iltimos https:// yoki t.me/ bilan boshlang.", adminMainKeyboard())
		return
	}
	h.sendText(ctx, h.adminID, fmt.Sprintf("Codes link saqlandi: %s", link), adminMainKeyboard())
}

func (h *Handlers) stepRemoveShareLink(ctx context.Context) {
	h.flows.Clear(h.adminID)

	if err := h.catalog.ClearShareLink(ctx); err != nil {
		h.logger.Error().Err(err).Msg("Failed to clear share link")
		h.sendText(ctx, h.adminID, fmt.Sprintf("DB xatolik: %v", err), adminMainKeyboard())
		return
	}
	h.sendText(ctx, h.adminID, "Codes link o'chirildi.", adminMainKeyboard())
}

func (h *Handlers) listGroups(ctx context.Context) {
	groups, err := h.groups.List(ctx)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list groups")
		h.sendText(ctx, h.adminID, fmt.Sprintf("DB xatolik: %v", err), adminMainKeyboard())
		return
	}

	lines := make([]string, 0, len(groups))
	for _, g := range groups {
		label := g.Username
		if label == "" {
			label = g.Title
		}
		if label == "" {
			label = "no title"
		}
		lines = append(lines, fmt.Sprintf("- %s (%s) invite:%s", g.ChatID, label, orDash(g.Invite)))
	}
	h.sendText(ctx, h.adminID, "Groups:\n"+joinOrEmpty(lines), adminMainKeyboard())
}

func (h *Handlers) listMonitored(ctx context.Context) {
	channels, err := h.channels.List(ctx)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list monitored channels")
		h.sendText(ctx, h.adminID, fmt.Sprintf("DB xatolik: %v", err), adminMainKeyboard())
		return
	}

	lines := make([]string, 0, len(channels))
	for _, ch := range channels {
		lines = append(lines, fmt.Sprintf("- %s invite:%s", ch.ChatID, orDash(ch.Invite)))
	}
	h.sendText(ctx, h.adminID, "JoinRequest monitored:\n"+joinOrEmpty(lines), adminMainKeyboard())
}

func (h *Handlers) listUsers(ctx context.Context) {
	total, err := h.users.Count(ctx)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to count users")
		h.sendText(ctx, h.adminID, fmt.Sprintf("DB xatolik: %v", err), adminMainKeyboard())
		return
	}
	ids, err := h.users.ListIDs(ctx, maxUserListing)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list users")
		h.sendText(ctx, h.adminID, fmt.Sprintf("DB xatolik: %v", err), adminMainKeyboard())
		return
	}

	lines := make([]string, 0, len(ids))
	for _, id := range ids {
		lines = append(lines, strconv.FormatInt(id, 10))
	}
	h.sendText(ctx, h.adminID,
		fmt.Sprintf("Foydalanuvchilar soni: %d\nBirinchi %d ID:\n%s", total, len(ids), joinOrEmpty(lines)),
		adminMainKeyboard())
}

// handlePending lists all recorded pending join requests, newest first.
func (h *Handlers) handlePending(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil || update.Message.From.ID != h.adminID {
		return
	}

	requests, err := h.pending.List(ctx)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list pending requests")
		h.sendText(ctx, h.adminID, fmt.Sprintf("DB xatolik: %v", err), nil)
		return
	}

	lines := make([]string, 0, len(requests))
	for _, r := range requests {
		lines = append(lines, fmt.Sprintf("- id:%d chat:%s user:%d uname:%s name:%s at:%s",
			r.ID, r.ChatID, r.UserID, orDash(r.Username), orDash(r.FullName),
			r.RequestedAt.Format(time.RFC3339)))
	}
	h.sendText(ctx, h.adminID, "Pending join requests:\n"+joinOrEmpty(lines), nil)
}

// handleRemovePending removes one pending join request by id.
func (h *Handlers) handleRemovePending(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil || update.Message.From.ID != h.adminID {
		return
	}

	parts := strings.Fields(update.Message.Text)
	if len(parts) < 2 {
		h.sendText(ctx, h.adminID, "Iltimos: /remove_pending <id>", nil)
		return
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		h.sendText(ctx, h.adminID, "ID raqam bo'lishi kerak.", nil)
		return
	}

	if err := h.pending.DeleteByID(ctx, id); err != nil && !errors.Is(err, domain.ErrPendingNotFound) {
		h.logger.Error().Err(err).Msg("Failed to delete pending request")
		h.sendText(ctx, h.adminID, fmt.Sprintf("DB xatolik: %v", err), nil)
		return
	}
	h.sendText(ctx, h.adminID, fmt.Sprintf("Pending id %d o'chirildi (agar mavjud bo'lsa).", id), nil)
}

func parseChatID(text string) (string, bool) {
	if _, err := strconv.ParseInt(text, 10, 64); err == nil {
		return text, true
	}
	if chatIDRe.MatchString(text) {
		return text, true
	}
	return "", false
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func joinOrEmpty(lines []string) string {
	if len(lines) == 0 {
		return "Hech narsa topilmadi."
	}
	return strings.Join(lines, "\n")
}

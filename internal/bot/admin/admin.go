package admin

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sukalov/cifrabot/internal/bot"
	"github.com/sukalov/cifrabot/internal/state"
	"github.com/sukalov/cifrabot/internal/users"
	"github.com/sukalov/cifrabot/internal/utils"
)

const listLimit = 10

type AdminHandlers struct {
	userManager *state.StateManager
	admins      map[string]bool

	mu              sync.Mutex
	clearInProgress bool
}

func NewAdminHandlers(userManager *state.StateManager, adminUsernames []string) *AdminHandlers {
	admins := make(map[string]bool)
	for _, username := range adminUsernames {
		username = strings.TrimPrefix(strings.TrimSpace(username), "@")
		if username != "" {
			admins[username] = true
		}
	}

	return &AdminHandlers{
		userManager: userManager,
		admins:      admins,
	}
}

// ParseAdmins reads a comma separated ADMIN_USERNAMES value
func ParseAdmins(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

func (h *AdminHandlers) isAdmin(user *tgbotapi.User) bool {
	return user != nil && h.admins[user.UserName]
}

func (h *AdminHandlers) sessionsHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	if !h.isAdmin(message.From) {
		return b.SendMessage(message.Chat.ID, "you are not an admin")
	}
	return b.SendMessage(message.Chat.ID, sessionsMessage(h.userManager.GetAll()))
}

// sessionsMessage lists the most recently active chats first
func sessionsMessage(list []users.UserState) string {
	if len(list) == 0 {
		return "no active sessions"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "sessions: %d\n", len(list))
	for i := len(list) - 1; i >= 0 && len(list)-i <= listLimit; i-- {
		s := list[i]
		name := s.Username
		if name == "" {
			name = fmt.Sprintf("%d", s.ChatID)
		} else {
			name = "@" + name
		}
		sheet := s.SheetName
		if sheet == "" {
			sheet = "-"
		}
		fmt.Fprintf(&b, "\n%s: %s [%s] %s", name, sheet, s.Request, utils.ConvertToBrasiliaTime(s.UpdatedAt))
	}
	return b.String()
}

func (h *AdminHandlers) clearSessionsHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	if !h.isAdmin(message.From) {
		return b.SendMessage(message.Chat.ID, "you are not an admin")
	}

	h.mu.Lock()
	h.clearInProgress = true
	h.mu.Unlock()

	return b.SendMessageWithButtons(message.Chat.ID, "every chat will lose its current sheet. sure?",
		tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("clear", "confirm_clear_sessions"),
				tgbotapi.NewInlineKeyboardButtonData("cancel", "abort_clear_sessions"),
			),
		),
	)
}

// takeClear reports whether a clear was pending and resets it
func (h *AdminHandlers) takeClear() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	pending := h.clearInProgress
	h.clearInProgress = false
	return pending
}

func (h *AdminHandlers) confirmHandler(b *bot.Bot, update tgbotapi.Update) error {
	query := update.CallbackQuery
	b.AnswerCallback(query, "")
	if !h.isAdmin(query.From) || !h.takeClear() {
		return b.SendMessage(query.From.ID, "that button no longer works")
	}

	ctx, cancel := context.WithTimeout(b.Context(), 30*time.Second)
	defer cancel()
	if err := h.userManager.Clear(ctx); err != nil {
		return b.SendMessage(query.From.ID, fmt.Sprintf("sessions cleared in memory, store failed: %v", err))
	}
	return b.SendMessage(query.From.ID, "sessions cleared")
}

func (h *AdminHandlers) abortHandler(b *bot.Bot, update tgbotapi.Update) error {
	query := update.CallbackQuery
	b.AnswerCallback(query, "")
	if h.takeClear() {
		return b.SendMessage(query.From.ID, "ok, cancelled")
	}
	return b.SendMessage(query.From.ID, "that button no longer works")
}

// Register adds the admin commands to the handler maps of a bot
func (h *AdminHandlers) Register(commandHandlers, callbackHandlers map[string]bot.HandlerFunc) {
	commandHandlers["sessions"] = h.sessionsHandler
	commandHandlers["clear_sessions"] = h.clearSessionsHandler
	callbackHandlers["abort_clear_sessions"] = h.abortHandler
	callbackHandlers["confirm_clear_sessions"] = h.confirmHandler
}

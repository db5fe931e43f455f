package admin

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sukalov/liveset/internal/bot"
	"github.com/sukalov/liveset/internal/bot/common"
	"github.com/sukalov/liveset/internal/db"
	"github.com/sukalov/liveset/internal/state"
)

// SetCounter reports how often each set was loaded
type SetCounter interface {
	GetSetCounts(ctx context.Context) (map[string]int, error)
}

type AdminHandlers struct {
	userManager *state.StateManager
	counter     SetCounter
	book        *db.Songbook
	users       *db.Users
	admins      map[string]bool

	mu              sync.Mutex
	clearInProgress map[int64]bool
}

func NewAdminHandlers(userManager *state.StateManager, counter SetCounter, book *db.Songbook, users *db.Users, adminUsernames []string) *AdminHandlers {
	admins := make(map[string]bool)
	for _, username := range adminUsernames {
		admins[username] = true
	}

	return &AdminHandlers{
		userManager:     userManager,
		counter:         counter,
		book:            book,
		users:           users,
		admins:          admins,
		clearInProgress: make(map[int64]bool),
	}
}

func (h *AdminHandlers) isAdmin(from *tgbotapi.User) bool {
	return from != nil && h.admins[from.UserName]
}

func (h *AdminHandlers) statsHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	if !h.isAdmin(message.From) {
		return b.SendMessage(message.Chat.ID, "you are not an admin")
	}

	ctx := context.Background()
	counts, err := h.counter.GetSetCounts(ctx)
	if err != nil {
		return b.SendMessage(message.Chat.ID, fmt.Sprintf("failed to read set counts: %v", err))
	}
	userCount, err := h.users.Count(ctx)
	if err != nil {
		return b.SendMessage(message.Chat.ID, fmt.Sprintf("failed to count users: %v", err))
	}

	return b.SendMessage(message.Chat.ID, FormatStats(counts, userCount, len(h.userManager.Active()), len(h.book.All())))
}

// FormatStats renders the admin statistics message, most loaded sets first
func FormatStats(counts map[string]int, userCount, activeSessions, bookSongs int) string {
	type setCount struct {
		set   string
		count int
	}
	var sorted []setCount
	for set, count := range counts {
		sorted = append(sorted, setCount{set, count})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].count != sorted[j].count {
			return sorted[i].count > sorted[j].count
		}
		return sorted[i].set < sorted[j].set
	})

	var sb strings.Builder
	fmt.Fprintf(&sb, "users: %d\nactive sessions: %d\nsongbook songs: %d\n", userCount, activeSessions, bookSongs)
	if len(sorted) == 0 {
		sb.WriteString("\nno sets loaded yet")
		return sb.String()
	}
	sb.WriteString("\nsets loaded:")
	for _, sc := range sorted {
		fmt.Fprintf(&sb, "\nS%s: %d", sc.set, sc.count)
	}
	return sb.String()
}

func (h *AdminHandlers) reloadHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	if !h.isAdmin(message.From) {
		return b.SendMessage(message.Chat.ID, "you are not an admin")
	}

	if err := h.book.Load(context.Background()); err != nil {
		return b.SendMessage(message.Chat.ID, fmt.Sprintf("reload failed: %v", err))
	}
	return b.SendMessage(message.Chat.ID, fmt.Sprintf("songbook %s reloaded: %d songs", h.book.Book(), len(h.book.All())))
}

func (h *AdminHandlers) clearHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	if !h.isAdmin(message.From) {
		return b.SendMessage(message.Chat.ID, "you are not an admin")
	}

	h.mu.Lock()
	h.clearInProgress[message.Chat.ID] = true
	h.mu.Unlock()

	return b.SendMessageWithButtons(message.Chat.ID, "every loaded set will be forgotten! are you sure?",
		tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("clear", "confirm_clear"),
				tgbotapi.NewInlineKeyboardButtonData("cancel", "abort_clear"),
			),
		),
	)
}

// takeClear consumes the pending confirmation of a chat
func (h *AdminHandlers) takeClear(chatID int64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	pending := h.clearInProgress[chatID]
	delete(h.clearInProgress, chatID)
	return pending
}

func (h *AdminHandlers) confirmHandler(b *bot.Bot, update tgbotapi.Update) error {
	chatID := update.CallbackQuery.Message.Chat.ID
	if !h.takeClear(chatID) {
		return b.SendMessage(chatID, "this button no longer works")
	}

	removed, err := h.userManager.Clear(context.Background())
	if err != nil {
		return b.SendMessage(chatID, fmt.Sprintf("clear failed: %v", err))
	}
	return b.SendMessage(chatID, fmt.Sprintf("sessions cleared: %d", removed))
}

func (h *AdminHandlers) abortHandler(b *bot.Bot, update tgbotapi.Update) error {
	chatID := update.CallbackQuery.Message.Chat.ID
	if h.takeClear(chatID) {
		return b.SendMessage(chatID, "ok, cancelled")
	}
	return b.SendMessage(chatID, "this button no longer works")
}

func SetupHandlers(adminBot *bot.Bot, userManager *state.StateManager, counter SetCounter, book *db.Songbook, users *db.Users, adminUsernames []string) {
	handlers := NewAdminHandlers(userManager, counter, book, users, adminUsernames)

	commandHandlers := common.GetCommandHandlers(userManager)
	commandHandlers["stats"] = handlers.statsHandler
	commandHandlers["reload"] = handlers.reloadHandler
	commandHandlers["clear"] = handlers.clearHandler

	callbackHandlers := common.GetCallbackHandlers()
	callbackHandlers["abort_clear"] = handlers.abortHandler
	callbackHandlers["confirm_clear"] = handlers.confirmHandler

	go adminBot.Start(commandHandlers, nil, callbackHandlers)
}

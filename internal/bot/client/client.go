package client

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sukalov/liveset/internal/bot"
	"github.com/sukalov/liveset/internal/bot/common"
	"github.com/sukalov/liveset/internal/db"
	"github.com/sukalov/liveset/internal/logger"
	"github.com/sukalov/liveset/internal/lyrics"
	"github.com/sukalov/liveset/internal/songbook"
	"github.com/sukalov/liveset/internal/state"
)

// maxSearchResults caps the inline keyboard of a songbook search
const maxSearchResults = 10

type ClientHandlers struct {
	userManager *state.StateManager
	service     *lyrics.Service
	book        *db.Songbook
	users       *db.Users
}

func NewClientHandlers(userManager *state.StateManager, service *lyrics.Service, book *db.Songbook, users *db.Users) *ClientHandlers {
	return &ClientHandlers{
		userManager: userManager,
		service:     service,
		book:        book,
		users:       users,
	}
}

func (h *ClientHandlers) startHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message

	if message.From != nil {
		err := h.users.RegisterUser(context.Background(), message.Chat.ID, message.From.UserName, message.From.FirstName, message.From.LastName)
		if err != nil {
			logger.Error(fmt.Sprintf("startHandler: error registering user %d\nError: %v", message.Chat.ID, err))
		}
	}

	// "/start 1234" opens a set directly
	if args := strings.TrimSpace(message.CommandArguments()); args != "" {
		return h.loadSet(b, update, args)
	}

	return b.SendMessage(message.Chat.ID, "hi! i turn live sets into slides.\n\n"+common.HelpText)
}

func (h *ClientHandlers) setHandler(b *bot.Bot, update tgbotapi.Update) error {
	args := strings.TrimSpace(update.Message.CommandArguments())
	if args == "" {
		return b.SendMessage(update.Message.Chat.ID, "usage: /set 1234")
	}
	return h.loadSet(b, update, args)
}

func (h *ClientHandlers) loadSet(b *bot.Bot, update tgbotapi.Update, setNumber string) error {
	message := update.Message
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	result, err := h.service.FetchSet(ctx, setNumber)
	if err != nil {
		if sendErr := b.SendMessage(message.Chat.ID, common.ErrorMessage(err)); sendErr != nil {
			return sendErr
		}
		return err
	}

	username := ""
	if message.From != nil {
		username = message.From.UserName
	}
	session, err := h.userManager.StartSet(ctx, message.Chat.ID, username, result)
	if err != nil {
		_ = b.SendMessage(message.Chat.ID, common.ErrorMessage(err))
		return err
	}

	if err := h.users.IncrementSetsViewed(ctx, message.Chat.ID); err != nil {
		logger.Debug(fmt.Sprintf("loadSet: %v", err))
	}
	logger.Success(fmt.Sprintf("set %s loaded for chat %d (%d songs)", setNumber, message.Chat.ID, len(session.Songs)))

	if len(session.Songs) == 0 {
		return b.SendMessage(message.Chat.ID, common.FormatSetList(session))
	}
	return b.SendMessageWithButtons(message.Chat.ID, common.FormatSetList(session), common.SetKeyboard(session))
}

func (h *ClientHandlers) songCallbackHandler(b *bot.Bot, update tgbotapi.Update) error {
	query := update.CallbackQuery
	chatID := query.Message.Chat.ID

	songIndex, err := strconv.Atoi(bot.CallbackArg(query.Data))
	if err != nil {
		return fmt.Errorf("bad song callback %q: %w", query.Data, err)
	}

	session, err := h.userManager.SelectSong(context.Background(), chatID, songIndex)
	if err != nil {
		return b.SendMessage(chatID, common.ErrorMessage(err))
	}

	song, _, _ := session.Current(h.userManager.SlideLines())
	if err := b.SendLongMessage(chatID, common.FormatSong(song)); err != nil {
		return err
	}
	return b.SendMessage(chatID, common.FormatSlide(session, h.userManager.SlideLines()))
}

func (h *ClientHandlers) nextHandler(b *bot.Bot, update tgbotapi.Update) error {
	chatID := update.Message.Chat.ID
	session, moved, err := h.userManager.NextSlide(context.Background(), chatID)
	if err != nil {
		return b.SendMessage(chatID, common.ErrorMessage(err))
	}
	text := common.FormatSlide(session, h.userManager.SlideLines())
	if !moved {
		text = "end of set\n\n" + text
	}
	return b.SendMessage(chatID, text)
}

func (h *ClientHandlers) prevHandler(b *bot.Bot, update tgbotapi.Update) error {
	chatID := update.Message.Chat.ID
	session, moved, err := h.userManager.PrevSlide(context.Background(), chatID)
	if err != nil {
		return b.SendMessage(chatID, common.ErrorMessage(err))
	}
	text := common.FormatSlide(session, h.userManager.SlideLines())
	if !moved {
		text = "start of set\n\n" + text
	}
	return b.SendMessage(chatID, text)
}

func (h *ClientHandlers) closeHandler(b *bot.Bot, update tgbotapi.Update) error {
	chatID := update.Message.Chat.ID
	if err := h.userManager.Remove(context.Background(), chatID); err != nil {
		return err
	}
	return b.SendMessage(chatID, "set closed")
}

func (h *ClientHandlers) songSearchHandler(b *bot.Bot, update tgbotapi.Update) error {
	chatID := update.Message.Chat.ID
	query := strings.TrimSpace(update.Message.CommandArguments())
	if query == "" {
		return b.SendMessage(chatID, "usage: /song amazing grace, /song 12 or /song key G")
	}

	results := h.book.Search(query)
	if len(results) == 0 {
		return b.SendMessage(chatID, "nothing found")
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, song := range results {
		if len(rows) >= maxSearchResults {
			break
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(songbook.FormatSongName(song), "book:"+strconv.Itoa(song.SongNumber)),
		))
	}

	message := "songs found:"
	if len(results) > maxSearchResults {
		message += fmt.Sprintf("\n(showing first %d of %d)", maxSearchResults, len(results))
	}

	return b.SendMessageWithButtons(chatID, message, tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (h *ClientHandlers) bookCallbackHandler(b *bot.Bot, update tgbotapi.Update) error {
	query := update.CallbackQuery
	chatID := query.Message.Chat.ID

	number, err := strconv.Atoi(bot.CallbackArg(query.Data))
	if err != nil {
		return fmt.Errorf("bad book callback %q: %w", query.Data, err)
	}

	entry, found := h.book.FindByNumber(number)
	if !found {
		return b.SendMessage(chatID, "song not found")
	}

	text := common.FormatSong(h.service.ProcessBookSong(entry))
	if len(text) > bot.MaxMessageLength {
		if err := b.SendLongMessage(chatID, text); err != nil {
			return err
		}
		return b.SendMessageWithButtons(chatID, "put it on the projector?", common.BookSongKeyboard(entry.SongNumber))
	}
	return b.SendMessageWithButtons(chatID, text, common.BookSongKeyboard(entry.SongNumber))
}

func (h *ClientHandlers) presentCallbackHandler(b *bot.Bot, update tgbotapi.Update) error {
	query := update.CallbackQuery
	chatID := query.Message.Chat.ID

	number, err := strconv.Atoi(bot.CallbackArg(query.Data))
	if err != nil {
		return fmt.Errorf("bad present callback %q: %w", query.Data, err)
	}

	entry, found := h.book.FindByNumber(number)
	if !found {
		return b.SendMessage(chatID, "song not found")
	}

	username := ""
	if query.From != nil {
		username = query.From.UserName
	}
	session, err := h.userManager.StartBookSong(context.Background(), chatID, username, h.service.ProcessBookSong(entry))
	if err != nil {
		return b.SendMessage(chatID, common.ErrorMessage(err))
	}
	return b.SendMessage(chatID, common.FormatSlide(session, h.userManager.SlideLines()))
}

func randomMessageHandler(b *bot.Bot, update tgbotapi.Update) error {
	return b.SendMessage(update.Message.Chat.ID, "i don't understand that...\n\n"+common.HelpText)
}

func SetupHandlers(clientBot *bot.Bot, userManager *state.StateManager, service *lyrics.Service, book *db.Songbook, users *db.Users) {
	handlers := NewClientHandlers(userManager, service, book, users)
	messageHandlers := []bot.HandlerFunc{randomMessageHandler}

	commandHandlers := common.GetCommandHandlers(userManager)
	commandHandlers["start"] = handlers.startHandler
	commandHandlers["set"] = handlers.setHandler
	commandHandlers["next"] = handlers.nextHandler
	commandHandlers["prev"] = handlers.prevHandler
	commandHandlers["close"] = handlers.closeHandler
	commandHandlers["song"] = handlers.songSearchHandler

	callbackHandlers := common.GetCallbackHandlers()
	callbackHandlers["song:"] = handlers.songCallbackHandler
	callbackHandlers["book:"] = handlers.bookCallbackHandler
	callbackHandlers["present:"] = handlers.presentCallbackHandler

	go clientBot.Start(
		commandHandlers,
		messageHandlers,
		callbackHandlers,
	)
}

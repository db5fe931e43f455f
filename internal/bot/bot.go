package bot

import (
	"fmt"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sukalov/liveset/internal/logger"
)

// MaxMessageLength is the Telegram limit for a single text message
const MaxMessageLength = 4096

// HandlerFunc handles one update
type HandlerFunc = func(b *Bot, update tgbotapi.Update) error

// Bot represents a configurable Telegram bot
type Bot struct {
	Client     *tgbotapi.BotAPI
	updateChan tgbotapi.UpdatesChannel
	stopChan   chan struct{}
	name       string
	mu         sync.Mutex
}

// New creates a new bot instance
func New(name, token string) (*Bot, error) {
	// Create bot client
	botClient, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	// Configure update configuration
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updateChan := botClient.GetUpdatesChan(updateConfig)

	return &Bot{
		Client:     botClient,
		updateChan: updateChan,
		stopChan:   make(chan struct{}, 1),
		name:       name,
	}, nil
}

// Start begins processing updates with custom handler.
// Callback handlers registered with a trailing ':' match any data with that prefix.
func (b *Bot) Start(
	commandHandlers map[string]HandlerFunc,
	messageHandlers []HandlerFunc,
	callbackHandlers map[string]HandlerFunc,
) {
	logger.Info(fmt.Sprintf("[%s] authorized on account %s", b.name, b.Client.Self.UserName))

	for {
		select {
		case update := <-b.updateChan:
			go b.processUpdate(update, commandHandlers, messageHandlers, callbackHandlers)
		case <-b.stopChan:
			b.Client.StopReceivingUpdates()
			return
		}
	}
}

// processUpdate handles incoming updates with custom handlers
func (b *Bot) processUpdate(
	update tgbotapi.Update,
	commandHandlers map[string]HandlerFunc,
	messageHandlers []HandlerFunc,
	callbackHandlers map[string]HandlerFunc,
) {
	// Handle command updates
	if update.Message != nil && update.Message.IsCommand() {
		if handler, exists := commandHandlers[update.Message.Command()]; exists {
			if err := handler(b, update); err != nil {
				logger.Error(fmt.Sprintf("[%s] command handler error: %v", b.name, err))
			}
			return
		}
	}

	// Handle callback queries
	if update.CallbackQuery != nil {
		if handler, exists := resolveCallback(callbackHandlers, update.CallbackQuery.Data); exists {
			if err := handler(b, update); err != nil {
				logger.Error(fmt.Sprintf("[%s] callback handler error: %v", b.name, err))
			}
			b.AnswerCallback(update.CallbackQuery.ID)
			return
		}
	}

	if update.Message == nil {
		return
	}

	// Run generic message handlers
	for _, handler := range messageHandlers {
		if err := handler(b, update); err != nil {
			logger.Error(fmt.Sprintf("[%s] message handler error: %v", b.name, err))
		}
	}
}

// resolveCallback finds the handler for callback data: an exact match
// first, then the "prefix:" registration.
func resolveCallback(handlers map[string]HandlerFunc, data string) (HandlerFunc, bool) {
	if handler, ok := handlers[data]; ok {
		return handler, true
	}
	if i := strings.Index(data, ":"); i >= 0 {
		handler, ok := handlers[data[:i+1]]
		return handler, ok
	}
	return nil, false
}

// CallbackArg returns the part of callback data after the first ':'
func CallbackArg(data string) string {
	if i := strings.Index(data, ":"); i >= 0 {
		return data[i+1:]
	}
	return ""
}

// Stop halts the bot
func (b *Bot) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopChan <- struct{}{}
}

func (b *Bot) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := b.Client.Send(msg)
	return err
}

func (b *Bot) SendMessageWithMarkdown(chatID int64, text string, disableLinks bool) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	msg.DisableWebPagePreview = disableLinks
	_, err := b.Client.Send(msg)
	return err
}

func (b *Bot) SendMessageWithButtons(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	_, err := b.Client.Send(msg)
	return err
}

// SendLongMessage sends text in as many messages as the length limit needs
func (b *Bot) SendLongMessage(chatID int64, text string) error {
	for _, chunk := range SplitMessage(text, MaxMessageLength) {
		if err := b.SendMessage(chatID, chunk); err != nil {
			return err
		}
	}
	return nil
}

// AnswerCallback stops the loading indicator on an inline button
func (b *Bot) AnswerCallback(callbackID string) {
	if _, err := b.Client.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		logger.Error(fmt.Sprintf("[%s] failed to answer callback: %v", b.name, err))
	}
}

// SplitMessage cuts text into chunks of at most limit runes, preferring
// paragraph and then line boundaries.
func SplitMessage(text string, limit int) []string {
	var chunks []string
	runes := []rune(text)

	for len(runes) > limit {
		window := string(runes[:limit])
		cut := strings.LastIndex(window, "\n\n")
		if cut <= 0 {
			cut = strings.LastIndex(window, "\n")
		}
		if cut <= 0 {
			cut = len(window)
		}

		head := []rune(window[:cut])
		chunks = append(chunks, strings.TrimRight(string(head), "\n"))
		runes = []rune(strings.TrimLeft(string(runes[len(head):]), "\n"))
	}

	if len(runes) > 0 || len(chunks) == 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}

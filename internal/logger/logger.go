package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	charmlog "github.com/charmbracelet/log"
)

var (
	ChannelID int64
	mu        sync.RWMutex
	botClient BotClient
	local     = newLocal(os.Stderr, charmlog.InfoLevel)
)

// BotClient delivers log lines to a Telegram channel
type BotClient interface {
	SendMessage(chatID int64, text string) error
}

func newLocal(w io.Writer, level charmlog.Level) *charmlog.Logger {
	return charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "2006-01-02 15:04:05",
		Level:           level,
		Prefix:          "liveset",
	})
}

// Init forwards every log line to the given channel in addition to the
// local output. A zero channelID disables forwarding.
func Init(client BotClient, channelID int64) {
	mu.Lock()
	defer mu.Unlock()

	if channelID == 0 {
		botClient = nil
		return
	}
	ChannelID = channelID
	botClient = client
}

// SetOutput replaces the local sink. level is one of debug, info, warn, error.
func SetOutput(w io.Writer, level string) {
	lvl, err := charmlog.ParseLevel(level)
	if err != nil {
		lvl = charmlog.InfoLevel
	}

	mu.Lock()
	defer mu.Unlock()
	local = newLocal(w, lvl)
}

func Info(message string) {
	current().Info(message)
	sendLog("ℹ️ INFO", message)
}

func Error(message string) {
	current().Error(message)
	sendLog("❌ ERROR", message)
}

func Debug(message string) {
	l := current()
	l.Debug(message)
	if l.GetLevel() <= charmlog.DebugLevel {
		sendLog("🔍 DEBUG", message)
	}
}

func Success(message string) {
	current().Info(message, "status", "ok")
	sendLog("✅ SUCCESS", message)
}

func current() *charmlog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return local
}

func sendLog(prefix, message string) {
	mu.RLock()
	client, channel := botClient, ChannelID
	mu.RUnlock()

	if client == nil {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	logMessage := fmt.Sprintf("[%s] %s\n%s", timestamp, prefix, message)

	go func() {
		if err := client.SendMessage(channel, logMessage); err != nil {
			current().Warn("failed to send log to channel", "err", err)
		}
	}()
}

// LogWithErr logs message as info when err is nil, otherwise as an error,
// and returns err wrapped with message.
func LogWithErr(message string, err error) error {
	if err == nil {
		Info(message)
		return nil
	}

	Error(fmt.Sprintf("%s\nError: %v", message, err))

	return fmt.Errorf("%s: %w", message, err)
}

package common

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sukalov/liveset/internal/bot"
	"github.com/sukalov/liveset/internal/lyrics/parsers/liveset"
	"github.com/sukalov/liveset/internal/state"
	"github.com/sukalov/liveset/internal/users"
)

const HelpText = `commands:
/set <number> - load a live set
/next, /prev - move the projector one slide
/current - show the slide on the projector
/close - forget the loaded set
/song <query> - search the songbook (number, title, lyrics or "key G")
/help - this message`

type CommonHandlers struct {
	userManager *state.StateManager
}

func GetCommandHandlers(userManager *state.StateManager) map[string]bot.HandlerFunc {
	handlers := newCommonHandlers(userManager)
	return map[string]bot.HandlerFunc{
		"current": handlers.currentHandler,
		"help":    helpHandler,
	}
}

// GetCallbackHandlers returns common callback handlers
func GetCallbackHandlers() map[string]bot.HandlerFunc {
	return map[string]bot.HandlerFunc{}
}

func newCommonHandlers(userManager *state.StateManager) *CommonHandlers {
	return &CommonHandlers{
		userManager: userManager,
	}
}

func helpHandler(b *bot.Bot, update tgbotapi.Update) error {
	return b.SendMessage(update.Message.Chat.ID, HelpText)
}

func (h *CommonHandlers) currentHandler(b *bot.Bot, update tgbotapi.Update) error {
	chatID := update.Message.Chat.ID
	session, found, err := h.userManager.Load(context.Background(), chatID)
	if err != nil {
		return err
	}
	if !found {
		return b.SendMessage(chatID, NoSetMessage)
	}
	return b.SendMessage(chatID, FormatSlide(session, h.userManager.SlideLines()))
}

// NoSetMessage is sent when a chat navigates before loading a set
const NoSetMessage = "no set loaded yet. send /set <number> first"

// ErrorMessage turns a failure into a short user-facing reply
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, state.ErrNoSession):
		return NoSetMessage
	case errors.Is(err, liveset.ErrInvalidSetNumber):
		return "that doesn't look like a set number. usage: /set 1234"
	case errors.Is(err, liveset.ErrStatus):
		return "the set service did not return that set. check the number and try again"
	case errors.Is(err, liveset.ErrDecode):
		return "the set service sent something i can't read"
	case errors.Is(err, liveset.ErrRequest):
		return "couldn't reach the set service, try again in a moment"
	default:
		return "something went wrong"
	}
}

// FormatSongTitle renders "<number>. <title> (<author>)"
func FormatSongTitle(song liveset.Song) string {
	title := fmt.Sprintf("%d. %s", song.SongNumber, song.Title)
	if song.Author != "" {
		title += " (" + song.Author + ")"
	}
	return title
}

// FormatSetList lists the songs of a loaded set
func FormatSetList(session users.Session) string {
	if len(session.Songs) == 0 {
		return fmt.Sprintf("set %s is empty", session.SetNumber)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "set %s: %d songs\n\n", session.SetNumber, len(session.Songs))
	for i, song := range session.Songs {
		marker := "  "
		if i == session.SongIndex {
			marker = "▶ "
		}
		sb.WriteString(marker + FormatSongTitle(song) + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// BookSongKeyboard offers to put a songbook entry on the projector
func BookSongKeyboard(songNumber int) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("present", "present:"+strconv.Itoa(songNumber)),
		),
	)
}

// SetKeyboard has one button per song of the set
func SetKeyboard(session users.Session) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, song := range session.Songs {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(FormatSongTitle(song), "song:"+strconv.Itoa(i)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// FormatSong renders every section of a song. Songbook entries carry
// their own slides and are rendered slide by slide.
func FormatSong(song liveset.Song) string {
	var sb strings.Builder
	sb.WriteString(FormatSongTitle(song))

	if len(song.Slides) > 0 {
		for _, slide := range song.Slides {
			sb.WriteString("\n\n")
			sb.WriteString(strings.Join(slide.Lines, "\n"))
		}
		return sb.String()
	}

	if len(song.Sections) == 0 {
		sb.WriteString("\n\n(no lyrics)")
		return sb.String()
	}

	for _, section := range song.Sections {
		sb.WriteString("\n\n")
		if section.Title != "" {
			sb.WriteString("[" + section.Title + "]\n")
		}
		sb.WriteString(section.Content)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatSlide renders the slide on the projector with its position
func FormatSlide(session users.Session, slideLines int) string {
	song, slide, ok := session.Current(slideLines)
	if !ok {
		return fmt.Sprintf("set %s has no songs", session.SetNumber)
	}

	header := fmt.Sprintf("%s\nsong %d/%d", FormatSongTitle(song), session.SongIndex+1, len(session.Songs))
	if len(slide.Lines) == 0 {
		return header + "\n\n(no lyrics)"
	}

	return fmt.Sprintf("%s · slide %d/%d · %s\n\n%s",
		header,
		session.SlideIndex+1,
		session.SlideCount(slideLines),
		slide.Section,
		strings.Join(slide.Lines, "\n"),
	)
}

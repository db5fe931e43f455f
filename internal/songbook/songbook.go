package songbook

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// RawBookSong is a songbook entry as stored in the songbook JSON files
type RawBookSong struct {
	SongNumber int      `json:"song_number"`
	Title      string   `json:"title"`
	Lyrics     string   `json:"lyrics"`
	Key        int      `json:"key"`
	Writer     string   `json:"writer"`
	Copyright  string   `json:"copyright"`
	CCLI       CCLI     `json:"CCLI"`
	Themes     []string `json:"themes"`
}

// BookSong is a songbook entry ready for search and display
type BookSong struct {
	SongNumber int      `json:"song_number"`
	Title      string   `json:"title"`
	Lyrics     string   `json:"lyrics"`
	RawLyrics  string   `json:"raw_lyrics"`
	Key        int      `json:"key"`
	Writer     string   `json:"writer"`
	Copyright  string   `json:"copyright"`
	CCLI       string   `json:"ccli"`
	Themes     []string `json:"themes"`
}

// CCLI licence numbers appear both as strings and as numbers
type CCLI string

func (c *CCLI) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = CCLI(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("CCLI must be a string or a number: %w", err)
	}
	*c = CCLI(n.String())
	return nil
}

var KeyNames = []string{
	"C", "C#", "D", "Eb", "E", "F", "F#", "G", "Ab", "A", "Bb", "B",
	"Cm", "C#m", "Dm", "Ebm", "Em", "Fm", "F#m", "Gm", "Abm", "Am", "Bbm", "Bm",
}

// KeyName returns the display name of a key index, or "" when out of range
func KeyName(key int) string {
	if key < 0 || key >= len(KeyNames) {
		return ""
	}
	return KeyNames[key]
}

// Normalize converts a raw entry into a BookSong
func Normalize(raw RawBookSong) BookSong {
	themes := raw.Themes
	if themes == nil {
		themes = []string{}
	}
	return BookSong{
		SongNumber: raw.SongNumber,
		Title:      raw.Title,
		Lyrics:     CleanLyrics(raw.Lyrics),
		RawLyrics:  raw.Lyrics,
		Key:        raw.Key,
		Writer:     raw.Writer,
		Copyright:  raw.Copyright,
		CCLI:       string(raw.CCLI),
		Themes:     themes,
	}
}

// ParseBook decodes a songbook JSON array
func ParseBook(data []byte) ([]BookSong, error) {
	var raw []RawBookSong
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode songbook: %w", err)
	}

	songs := make([]BookSong, 0, len(raw))
	for _, r := range raw {
		songs = append(songs, Normalize(r))
	}
	return songs, nil
}

// CleanLyrics prepares raw lyrics for searching: lines with '|' are dropped,
// lines are trimmed, empty lines dropped and asterisks stripped.
func CleanLyrics(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(line, "|") {
			continue
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, strings.ReplaceAll(line, "*", ""))
	}
	return strings.Join(lines, "\n")
}

var (
	punctuationRegex = regexp.MustCompile(`[^\w\s]|_`)
	spacesRegex      = regexp.MustCompile(`\s+`)
	digitsRegex      = regexp.MustCompile(`^\d+$`)
)

// RemovePunctuation keeps only word characters and collapses whitespace
func RemovePunctuation(text string) string {
	text = punctuationRegex.ReplaceAllString(text, "")
	return spacesRegex.ReplaceAllString(text, " ")
}

// Filter returns songs matching query. "key <name>" searches by musical key,
// a bare number searches song numbers, anything else searches titles,
// lyrics and numbers.
func Filter(songs []BookSong, query string) []BookSong {
	sanitized := strings.TrimSpace(strings.ToLower(RemovePunctuation(query)))
	if sanitized == "" {
		return songs
	}

	var match func(BookSong) bool
	switch {
	case strings.HasPrefix(sanitized, "key "):
		keySearch := strings.TrimSpace(sanitized[len("key "):])
		match = func(song BookSong) bool {
			name := strings.ToLower(RemovePunctuation(KeyName(song.Key)))
			return strings.Contains(name, keySearch)
		}
	case digitsRegex.MatchString(sanitized):
		match = func(song BookSong) bool {
			return strings.Contains(strconv.Itoa(song.SongNumber), sanitized)
		}
	default:
		match = func(song BookSong) bool {
			return contains(song.Title, sanitized) ||
				contains(song.Lyrics, sanitized) ||
				strings.Contains(strconv.Itoa(song.SongNumber), sanitized)
		}
	}

	var result []BookSong
	for _, song := range songs {
		if match(song) {
			result = append(result, song)
		}
	}
	return result
}

func contains(text, sanitized string) bool {
	return text != "" && strings.Contains(strings.ToLower(RemovePunctuation(text)), sanitized)
}

// FormatSongName renders "<number>. <title>" with the writer when known
func FormatSongName(song BookSong) string {
	name := fmt.Sprintf("%d. %s", song.SongNumber, song.Title)
	if song.Writer != "" {
		name += " (" + song.Writer + ")"
	}
	return name
}

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sukalov/liveset/internal/logger"
	"github.com/sukalov/liveset/internal/songbook"
)

// Songbook keeps one book of songs in memory, backed by the songbook table
type Songbook struct {
	db    *sql.DB
	book  string
	songs []songbook.BookSong
	mu    sync.RWMutex
}

// NewSongbook creates a songbook for the given book id ("us", "es", "aus")
func NewSongbook(database *sql.DB, book string) *Songbook {
	return &Songbook{db: database, book: book}
}

// Book returns the book id
func (s *Songbook) Book() string {
	return s.book
}

// Load reads the whole book into memory. On any error the previous
// in-memory copy is kept.
func (s *Songbook) Load(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		`SELECT song_number, title, lyrics, song_key, writer, copyright, ccli, themes
		 FROM songbook WHERE book = ? ORDER BY song_number`, s.book)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	var songs []songbook.BookSong
	for rows.Next() {
		var (
			song                           songbook.BookSong
			writer, copyright, ccli, themes sql.NullString
		)
		if err := rows.Scan(&song.SongNumber, &song.Title, &song.RawLyrics, &song.Key, &writer, &copyright, &ccli, &themes); err != nil {
			logger.Error(fmt.Sprintf("songbook %s: error scanning row\nError: %v", s.book, err))
			return fmt.Errorf("failed to scan songbook row: %w", err)
		}
		song.Lyrics = songbook.CleanLyrics(song.RawLyrics)
		song.Writer = writer.String
		song.Copyright = copyright.String
		song.CCLI = ccli.String
		song.Themes = decodeThemes(themes.String)
		songs = append(songs, song)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error during rows iteration: %w", err)
	}

	s.Replace(songs)
	return nil
}

// Import upserts songs into the book in one transaction and refreshes
// the in-memory copy.
func (s *Songbook) Import(ctx context.Context, songs []songbook.BookSong) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin import: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO songbook (book, song_number, title, lyrics, song_key, writer, copyright, ccli, themes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (book, song_number) DO UPDATE SET
			title = excluded.title,
			lyrics = excluded.lyrics,
			song_key = excluded.song_key,
			writer = excluded.writer,
			copyright = excluded.copyright,
			ccli = excluded.ccli,
			themes = excluded.themes`

	for _, song := range songs {
		_, err := tx.ExecContext(ctx, query,
			s.book,
			song.SongNumber,
			song.Title,
			song.RawLyrics,
			song.Key,
			nullable(song.Writer),
			nullable(song.Copyright),
			nullable(song.CCLI),
			encodeThemes(song.Themes),
		)
		if err != nil {
			return fmt.Errorf("failed to import song %d: %w", song.SongNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}

	return s.Load(ctx)
}

// Replace swaps the in-memory songs, keeping them ordered by number
func (s *Songbook) Replace(songs []songbook.BookSong) {
	sorted := append([]songbook.BookSong(nil), songs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SongNumber < sorted[j].SongNumber
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.songs = sorted
}

// All returns a copy of every song in the book
func (s *Songbook) All() []songbook.BookSong {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]songbook.BookSong(nil), s.songs...)
}

func (s *Songbook) FindByNumber(number int) (songbook.BookSong, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, song := range s.songs {
		if song.SongNumber == number {
			return song, true
		}
	}
	return songbook.BookSong{}, false
}

// Search filters the book with the songbook query rules
func (s *Songbook) Search(query string) []songbook.BookSong {
	return songbook.Filter(s.All(), query)
}

func nullable(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

func encodeThemes(themes []string) string {
	if len(themes) == 0 {
		return "[]"
	}
	data, err := json.Marshal(themes)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func decodeThemes(raw string) []string {
	themes := []string{}
	if raw == "" {
		return themes
	}
	if err := json.Unmarshal([]byte(raw), &themes); err != nil {
		return []string{}
	}
	return themes
}

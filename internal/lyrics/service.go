package lyrics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sukalov/liveset/internal/logger"
	"github.com/sukalov/liveset/internal/lyrics/parsers/liveset"
	"github.com/sukalov/liveset/internal/songbook"
)

// ErrNoSource is returned when the service has no way to fetch sets
var ErrNoSource = errors.New("no set source configured")

// SetFetcher downloads a raw set envelope
type SetFetcher interface {
	FetchSet(ctx context.Context, setNumber string) (*liveset.SetContent, error)
}

// Service turns remote sets and songbook entries into display-ready songs
type Service struct {
	fetcher SetFetcher
	parser  *liveset.Parser
	now     func() time.Time
}

// NewService creates a new lyrics service
func NewService(parser *liveset.Parser) *Service {
	s := &Service{
		parser: parser,
		now:    time.Now,
	}
	// a nil *Client would still make a non-nil SetFetcher
	if client := parser.Client(); client != nil {
		s.fetcher = client
	}
	return s
}

// NewServiceWithFetcher creates a service with a custom set source
func NewServiceWithFetcher(parser *liveset.Parser, fetcher SetFetcher) *Service {
	s := NewService(parser)
	s.fetcher = fetcher
	return s
}

// FetchSet fetches a live set and processes every song in it. Either all
// songs are returned or the call fails.
func (s *Service) FetchSet(ctx context.Context, setNumber string) (*liveset.SetResult, error) {
	logger.Debug(fmt.Sprintf("FetchSet called with set number: %s", setNumber))

	if s.fetcher == nil {
		return nil, fmt.Errorf("fetch set %s: %w", setNumber, ErrNoSource)
	}

	content, err := s.fetcher.FetchSet(ctx, setNumber)
	if err != nil {
		logger.Error(fmt.Sprintf("FetchSet failed for set %s\nError: %v", setNumber, err))
		return nil, fmt.Errorf("fetch set %s: %w", setNumber, err)
	}

	songs := liveset.AssembleSet(content)

	logger.Debug(fmt.Sprintf("FetchSet succeeded for set %s\nSongs: %d", setNumber, len(songs)))

	return &liveset.SetResult{
		SetNumber: setNumber,
		Songs:     songs,
		FetchedAt: s.now(),
	}, nil
}

// ProcessBookSong runs a songbook entry through the lyric pipeline. Its
// slides come from the songbook's own markup, so repeat counts survive.
func (s *Service) ProcessBookSong(song songbook.BookSong) liveset.Song {
	processed := liveset.AssembleSong(liveset.SongInSet{
		SongNumber: song.SongNumber,
		Title:      song.Title,
		Lyrics:     song.RawLyrics,
		Writer:     song.Writer,
	})
	processed.Slides = songbook.SplitSlides(song.RawLyrics)
	return processed
}

// Slides splits a processed song into projector slides
func (s *Service) Slides(song liveset.Song) []liveset.Slide {
	return s.parser.Slides(song)
}

package users

import (
	"fmt"
	"time"

	"github.com/sukalov/liveset/internal/lyrics/parsers/liveset"
)

// Session is the presentation state of one chat: the loaded set and the
// slide currently on the projector.
type Session struct {
	ChatID     int64          `json:"chat_id"`
	Username   string         `json:"username"`
	SetNumber  string         `json:"set_number"`
	Songs      []liveset.Song `json:"songs"`
	SongIndex  int            `json:"song_index"`
	SlideIndex int            `json:"slide_index"`
	LoadedAt   time.Time      `json:"loaded_at"`
}

func (s *Session) slides(songIndex, slideLines int) []liveset.Slide {
	song := s.Songs[songIndex]
	if len(song.Slides) > 0 {
		return song.Slides
	}
	return liveset.BuildSlides(song.Sections, slideLines)
}

// Select jumps to the first slide of the given song
func (s *Session) Select(songIndex int) error {
	if songIndex < 0 || songIndex >= len(s.Songs) {
		return fmt.Errorf("song index %d out of range (set has %d songs)", songIndex, len(s.Songs))
	}
	s.SongIndex = songIndex
	s.SlideIndex = 0
	return nil
}

// Next moves one slide forward, continuing into the next song with slides.
// It reports false when already on the last slide of the set.
func (s *Session) Next(slideLines int) bool {
	if len(s.Songs) == 0 {
		return false
	}
	if s.SlideIndex+1 < len(s.slides(s.SongIndex, slideLines)) {
		s.SlideIndex++
		return true
	}
	for i := s.SongIndex + 1; i < len(s.Songs); i++ {
		if len(s.slides(i, slideLines)) > 0 {
			s.SongIndex = i
			s.SlideIndex = 0
			return true
		}
	}
	return false
}

// Prev moves one slide back, continuing into the last slide of the
// previous song with slides. It reports false on the first slide.
func (s *Session) Prev(slideLines int) bool {
	if len(s.Songs) == 0 {
		return false
	}
	if s.SlideIndex > 0 {
		s.SlideIndex--
		return true
	}
	for i := s.SongIndex - 1; i >= 0; i-- {
		if n := len(s.slides(i, slideLines)); n > 0 {
			s.SongIndex = i
			s.SlideIndex = n - 1
			return true
		}
	}
	return false
}

// Current returns the selected song and slide. ok is false when no set is
// loaded; slide is zero when the song has no lyrics.
func (s *Session) Current(slideLines int) (song liveset.Song, slide liveset.Slide, ok bool) {
	if len(s.Songs) == 0 || s.SongIndex < 0 || s.SongIndex >= len(s.Songs) {
		return liveset.Song{}, liveset.Slide{}, false
	}
	song = s.Songs[s.SongIndex]
	slides := s.slides(s.SongIndex, slideLines)
	if s.SlideIndex >= 0 && s.SlideIndex < len(slides) {
		slide = slides[s.SlideIndex]
	}
	return song, slide, true
}

// SlideCount returns the number of slides of the selected song
func (s *Session) SlideCount(slideLines int) int {
	if s.SongIndex < 0 || s.SongIndex >= len(s.Songs) {
		return 0
	}
	return len(s.slides(s.SongIndex, slideLines))
}

package liveset

import (
	"encoding/json"
	"fmt"
	"time"
)

// SongInSet is a single song entry as delivered by the live set endpoint
type SongInSet struct {
	SongNumber int    `json:"song_number"`
	Title      string `json:"title"`
	Lyrics     string `json:"lyrics"`
	Writer     string `json:"writer"`
}

// UnmarshalJSON requires all four fields to be present and non-null
func (s *SongInSet) UnmarshalJSON(data []byte) error {
	var raw struct {
		SongNumber *int    `json:"song_number"`
		Title      *string `json:"title"`
		Lyrics     *string `json:"lyrics"`
		Writer     *string `json:"writer"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch {
	case raw.SongNumber == nil:
		return fmt.Errorf("missing or null field song_number")
	case raw.Title == nil:
		return fmt.Errorf("missing or null field title")
	case raw.Lyrics == nil:
		return fmt.Errorf("missing or null field lyrics")
	case raw.Writer == nil:
		return fmt.Errorf("missing or null field writer")
	}

	*s = SongInSet{
		SongNumber: *raw.SongNumber,
		Title:      *raw.Title,
		Lyrics:     *raw.Lyrics,
		Writer:     *raw.Writer,
	}
	return nil
}

// SetContent is the response envelope of the live set endpoint
type SetContent struct {
	SetData []SongInSet `json:"set_data"`
}

// Section is a titled block of lyric text, e.g. a verse or a chorus.
// Title is empty for lyrics that precede the first marker.
type Section struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Song is a display-ready song. Slides is set only for songs whose slide
// breaks come from their own markup (songbook entries); otherwise slides
// are built from Sections.
type Song struct {
	SongNumber int       `json:"song_number"`
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	Sections   []Section `json:"sections"`
	Slides     []Slide   `json:"slides,omitempty"`
}

// Slide is one projector page of a section
type Slide struct {
	Section string   `json:"section"`
	Lines   []string `json:"lines"`
}

// SetResult represents a fully processed live set
type SetResult struct {
	SetNumber string    `json:"set_number"`
	Songs     []Song    `json:"songs"`
	FetchedAt time.Time `json:"fetched_at"`
}

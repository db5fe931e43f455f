package liveset

// Parser turns raw set lyrics into structured songs.
// It holds no per-call state and is safe for concurrent use.
type Parser struct {
	client *Client
	config *ProcessingConfig
}

// ProcessingConfig holds configuration for presentation output
type ProcessingConfig struct {
	SlideLines int
}

// NewParser creates a new live set parser
func NewParser(client *Client) *Parser {
	return &Parser{
		client: client,
		config: &ProcessingConfig{
			SlideLines: DefaultSlideLines,
		},
	}
}

// WithSlideLines overrides the number of lines per projector slide
func (p *Parser) WithSlideLines(n int) *Parser {
	if n > 0 {
		p.config.SlideLines = n
	}
	return p
}

// Client returns the HTTP client used for set requests
func (p *Parser) Client() *Client {
	return p.client
}

// Slides splits a processed song into projector slides
func (p *Parser) Slides(song Song) []Slide {
	if len(song.Slides) > 0 {
		return song.Slides
	}
	return BuildSlides(song.Sections, p.config.SlideLines)
}

// ProcessLyrics runs one raw lyric string through the whole pipeline
func ProcessLyrics(raw string) []Section {
	text := NormalizeLines(raw)
	text = RewriteMarkers(text)
	text = CollapseBlankRuns(text)
	return Segment(text)
}

// AssembleSong builds a display-ready song from a set entry
func AssembleSong(entry SongInSet) Song {
	return Song{
		SongNumber: entry.SongNumber,
		Title:      entry.Title,
		Author:     entry.Writer,
		Sections:   ProcessLyrics(entry.Lyrics),
	}
}

// AssembleSet processes every song of a set in order
func AssembleSet(content *SetContent) []Song {
	songs := make([]Song, 0, len(content.SetData))
	for _, entry := range content.SetData {
		songs = append(songs, AssembleSong(entry))
	}
	return songs
}

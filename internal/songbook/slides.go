package songbook

import (
	"regexp"
	"strings"

	"github.com/sukalov/liveset/internal/lyrics/parsers/liveset"
)

// bookSlideLabel names every slide of a songbook entry
const bookSlideLabel = "Lyrics"

var repeatTokenRegex = regexp.MustCompile(`(?i)\*(?:x\d+|\d+x)\*`)

// slideBuilder accumulates lines into slides of at most maxLines
type slideBuilder struct {
	maxLines int
	current  []string
	slides   []liveset.Slide
}

func (b *slideBuilder) flush() {
	if len(b.current) == 0 {
		return
	}
	b.slides = append(b.slides, liveset.Slide{Section: bookSlideLabel, Lines: b.current})
	b.current = nil
}

// add appends a line, closing the slide before and after it when full
func (b *slideBuilder) add(line string) {
	if len(b.current) == b.maxLines {
		b.flush()
	}
	b.current = append(b.current, line)
	if len(b.current) == b.maxLines {
		b.flush()
	}
}

// SplitSlides splits raw songbook lyrics into projector slides. Unlike
// the set pipeline it keeps repeat counts: a "*x2*" or "*2x*" token is
// split off its line and becomes a slide of its own. Any other line with
// an asterisk (a verse or chorus marker) starts a new slide. Reference
// lines containing '|' are dropped and asterisks are stripped.
func SplitSlides(rawLyrics string) []liveset.Slide {
	b := &slideBuilder{maxLines: liveset.DefaultSlideLines}

	for _, line := range strings.Split(rawLyrics, "\n") {
		if strings.Contains(line, "|") {
			continue
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if token := repeatTokenRegex.FindString(line); token != "" {
			if before := strings.TrimSpace(strings.Replace(line, token, "", 1)); before != "" {
				b.add(stripAsterisks(before))
			}
			b.flush()
			b.current = []string{stripAsterisks(token)}
			b.flush()
			continue
		}

		if strings.Contains(line, "*") {
			b.flush()
		}
		b.add(stripAsterisks(line))
	}

	b.flush()
	if b.slides == nil {
		return []liveset.Slide{}
	}
	return b.slides
}

func stripAsterisks(s string) string {
	return strings.ReplaceAll(s, "*", "")
}

package liveset

import (
	"strings"
)

// DefaultSlideLines is how many lyric lines fit on one projector slide
const DefaultSlideLines = 4

// untitledSlideSection labels slides cut from a section without a title
const untitledSlideSection = "Lyrics"

// BuildSlides cuts sections into slides of at most maxLines lines.
// A blank line inside a section always starts a new slide.
func BuildSlides(sections []Section, maxLines int) []Slide {
	if maxLines <= 0 {
		maxLines = DefaultSlideLines
	}

	slides := []Slide{}
	for _, section := range sections {
		name := section.Title
		if name == "" {
			name = untitledSlideSection
		}

		var current []string
		flushCurrent := func() {
			if len(current) == 0 {
				return
			}
			slides = append(slides, Slide{Section: name, Lines: current})
			current = nil
		}

		for _, line := range strings.Split(section.Content, "\n") {
			if strings.TrimSpace(line) == "" {
				flushCurrent()
				continue
			}
			current = append(current, line)
			if len(current) == maxLines {
				flushCurrent()
			}
		}
		flushCurrent()
	}

	return slides
}

package liveset

import (
	"regexp"
	"strings"
)

// A title line is exactly "[...]" once trimmed
var sectionTitleRegex = regexp.MustCompile(`^\[(.+?)\]$`)

// sectionAccumulator holds the section being built while walking lines
type sectionAccumulator struct {
	title    string
	content  strings.Builder
	sections []Section
}

// flush emits the pending section unless nothing has been accumulated yet
func (a *sectionAccumulator) flush() {
	if a.title == "" && a.content.Len() == 0 {
		return
	}
	a.sections = append(a.sections, Section{
		Title:   a.title,
		Content: strings.TrimSpace(a.content.String()),
	})
	a.content.Reset()
}

func (a *sectionAccumulator) appendLine(line string) {
	if a.content.Len() > 0 {
		a.content.WriteByte('\n')
	}
	a.content.WriteString(line)
}

// Segment splits normalized text into titled sections in order of appearance.
// Lyrics before the first title line become a section with an empty title.
func Segment(text string) []Section {
	acc := &sectionAccumulator{sections: []Section{}}

	for _, line := range splitLines(text) {
		trimmedLine := strings.TrimSpace(line)

		if match := sectionTitleRegex.FindStringSubmatch(trimmedLine); match != nil {
			acc.flush()
			acc.title = match[1]
			continue
		}

		// Marker removal can leave doubled or edge whitespace behind
		acc.appendLine(strings.Join(strings.Fields(trimmedLine), " "))
	}

	acc.flush()

	return acc.sections
}

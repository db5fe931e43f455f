package liveset

import (
	"regexp"
	"strings"
)

// Page/line references from the source system, e.g. "|12|"
var lineReferenceRegex = regexp.MustCompile(`\|\d+\|`)

// NormalizeLines undoes escaped newlines, drops line-reference noise and
// collapses whitespace inside every remaining line.
func NormalizeLines(raw string) string {
	// Escaped newlines must be real line breaks before anything line-oriented runs
	text := strings.ReplaceAll(raw, `\n`, "\n")

	var cleanLines []string
	for _, line := range splitLines(text) {
		if lineReferenceRegex.MatchString(line) {
			continue
		}
		// Fields trims and splits on any whitespace run, tabs included
		cleanLines = append(cleanLines, strings.Join(strings.Fields(line), " "))
	}

	// Leading and trailing blank lines carry no meaning
	return strings.Trim(strings.Join(cleanLines, "\n"), "\n")
}

// splitLines splits on line breaks without producing a trailing empty line
// for text that ends with a break.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}

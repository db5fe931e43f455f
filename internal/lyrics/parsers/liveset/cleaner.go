package liveset

import (
	"regexp"
)

var excessiveBreaksRegex = regexp.MustCompile(`\n{3,}`)

// CollapseBlankRuns bounds runs of blank lines to a single blank line.
// A run of exactly two breaks is left untouched.
func CollapseBlankRuns(text string) string {
	return excessiveBreaksRegex.ReplaceAllString(text, "\n\n")
}

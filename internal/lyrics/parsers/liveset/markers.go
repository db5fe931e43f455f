package liveset

import (
	"regexp"
	"strings"
)

var (
	verseMarkerRegex  = regexp.MustCompile(`\*(\d+)\.\*\s?`)
	repeatMarkerRegex = regexp.MustCompile(`\*x(\d+)\*`)
)

const chorusMarker = "*Chorus:*"

// RewriteMarkers applies the verse, chorus and repeat passes in that order.
func RewriteMarkers(text string) string {
	text = RewriteVerseMarkers(text)
	text = RewriteChorusMarkers(text)
	return StripRepeatMarkers(text)
}

// RewriteVerseMarkers turns "*3.* " into a "[Verse 3]" header line.
// The number is kept verbatim, leading zeros included.
func RewriteVerseMarkers(text string) string {
	return verseMarkerRegex.ReplaceAllString(text, "[Verse ${1}]\n")
}

// RewriteChorusMarkers turns "*Chorus:*" into a "[Chorus]" header line.
func RewriteChorusMarkers(text string) string {
	return strings.ReplaceAll(text, chorusMarker, "[Chorus]\n")
}

// StripRepeatMarkers removes "*x2*" style repeat counts. It repeats until
// no marker is left, since removing one can join its neighbours into a new
// one ("*x*x2*2*").
func StripRepeatMarkers(text string) string {
	for {
		stripped := repeatMarkerRegex.ReplaceAllString(text, "")
		if stripped == text {
			return stripped
		}
		text = stripped
	}
}

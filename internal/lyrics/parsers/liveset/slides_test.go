package liveset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSlides(t *testing.T) {
	sections := []Section{
		{Title: "Verse 1", Content: "a\nb\nc\nd\ne"},
		{Title: "", Content: "x\n\ny"},
		{Title: "Chorus", Content: ""},
		{Title: "Chorus", Content: "z"},
	}

	got := BuildSlides(sections, 4)

	assert.Equal(t, []Slide{
		{Section: "Verse 1", Lines: []string{"a", "b", "c", "d"}},
		{Section: "Verse 1", Lines: []string{"e"}},
		{Section: "Lyrics", Lines: []string{"x"}},
		{Section: "Lyrics", Lines: []string{"y"}},
		{Section: "Chorus", Lines: []string{"z"}},
	}, got)
}

func TestBuildSlidesDefaultsLineCount(t *testing.T) {
	got := BuildSlides([]Section{{Title: "Verse 1", Content: "1\n2\n3\n4\n5\n6"}}, 0)

	assert.Len(t, got, 2)
	assert.Len(t, got[0].Lines, DefaultSlideLines)
}

func TestBuildSlidesEmpty(t *testing.T) {
	assert.Empty(t, BuildSlides(nil, 4))
	assert.NotNil(t, BuildSlides(nil, 4))
}

func TestParserSlides(t *testing.T) {
	p := NewParser(nil).WithSlideLines(2)
	song := AssembleSong(SongInSet{Lyrics: amazingGrace})

	slides := p.Slides(song)

	assert.Equal(t, []Slide{
		{Section: "Verse 1", Lines: []string{"Amazing grace, how sweet the sound", "That saved a wretch like me"}},
		{Section: "Chorus", Lines: []string{"My chains are gone"}},
		{Section: "Verse 2", Lines: []string{"'Twas grace that taught", "My heart to fear"}},
	}, slides)
}

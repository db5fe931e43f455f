package songbook

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sukalov/liveset/internal/lyrics/parsers/liveset"
)

func lyricsSlide(lines ...string) liveset.Slide {
	return liveset.Slide{Section: "Lyrics", Lines: lines}
}

func TestSplitSlides(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []liveset.Slide
	}{
		{
			name: "empty",
			in:   "",
			want: []liveset.Slide{},
		},
		{
			name: "four lines per slide",
			in:   "a\nb\nc\nd\ne",
			want: []liveset.Slide{lyricsSlide("a", "b", "c", "d"), lyricsSlide("e")},
		},
		{
			name: "reference lines and blanks dropped",
			in:   "Amazing grace |12|\n\n  a  \n\nb",
			want: []liveset.Slide{lyricsSlide("a", "b")},
		},
		{
			name: "marker line starts a new slide",
			in:   "intro\n*1.* Amazing grace\nhow sweet\n*Chorus:*\nmy chains",
			want: []liveset.Slide{
				lyricsSlide("intro"),
				lyricsSlide("1. Amazing grace", "how sweet"),
				lyricsSlide("Chorus:", "my chains"),
			},
		},
		{
			name: "inline repeat token split off",
			in:   "a\nHallelujah *x2*\nb",
			want: []liveset.Slide{
				lyricsSlide("a", "Hallelujah"),
				lyricsSlide("x2"),
				lyricsSlide("b"),
			},
		},
		{
			name: "postfix and upper case repeat tokens",
			in:   "*2X*\nPraise *3x*",
			want: []liveset.Slide{
				lyricsSlide("2X"),
				lyricsSlide("Praise"),
				lyricsSlide("3x"),
			},
		},
		{
			name: "repeat after a full slide",
			in:   "a\nb\nc\nd\ne *x4*",
			want: []liveset.Slide{
				lyricsSlide("a", "b", "c", "d"),
				lyricsSlide("e"),
				lyricsSlide("x4"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitSlides(tt.in))
		})
	}
}

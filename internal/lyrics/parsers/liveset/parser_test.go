package liveset

import (
	"regexp"
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// amazingGrace uses escaped newlines the way the set endpoint delivers them
const amazingGrace = `*1.* Amazing grace, how sweet the sound\nThat saved a wretch like me\n\n*Chorus:*\nMy chains are gone *x2*\n|4|\n*2.* 'Twas grace that taught\nMy heart to fear`

func TestNormalizeLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"escaped newlines", `line one\nline two`, "line one\nline two"},
		{"reference noise line dropped", "Amazing grace |12|\nHow sweet", "How sweet"},
		{"bare reference line dropped", "a\n|3|\nb", "a\nb"},
		{"pipes without digits kept", "a | b", "a | b"},
		{"whitespace collapsed", "  a \t  b  \n\tc", "a b\nc"},
		{"blank lines kept", "a\n\nb", "a\n\nb"},
		{"carriage returns", "a\r\nb\r\n", "a\nb"},
		{"empty", "", ""},
		{"whitespace only", "   \n \t \n", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeLines(tt.in))
		})
	}
}

func TestRewriteVerseMarkers(t *testing.T) {
	assert.Equal(t, "[Verse 3]\nSome words", RewriteVerseMarkers("*3.* Some words"))
	assert.Equal(t, "[Verse 007]\nx", RewriteVerseMarkers("*007.*x"))
	assert.Equal(t, "[Verse 12]\n", RewriteVerseMarkers("*12.*"))
	assert.Equal(t, "*3* words", RewriteVerseMarkers("*3* words"))
}

func TestRewriteChorusMarkers(t *testing.T) {
	assert.Equal(t, "[Chorus]\n\nHallelujah", RewriteChorusMarkers("*Chorus:*\nHallelujah"))
	assert.Equal(t, "*chorus:*", RewriteChorusMarkers("*chorus:*"))
}

func TestStripRepeatMarkers(t *testing.T) {
	assert.Equal(t, "Hallelujah ", StripRepeatMarkers("Hallelujah *x2*"))
	assert.Equal(t, "ab", StripRepeatMarkers("a*x10*b"))
	assert.Equal(t, "*2x* *X2*", StripRepeatMarkers("*2x* *X2*"))
	assert.Equal(t, "Sing  loud", StripRepeatMarkers("Sing *x*x2*2* loud"))
	assert.Equal(t, "", StripRepeatMarkers("*x*x*x1*1*1*"))
}

func TestRewriteMarkersOrder(t *testing.T) {
	got := RewriteMarkers("*1.* Grace *x2*\n*Chorus:*\nGone")
	assert.Equal(t, "[Verse 1]\nGrace \n[Chorus]\n\nGone", got)
}

func TestCollapseBlankRuns(t *testing.T) {
	assert.Equal(t, "a\n\nb", CollapseBlankRuns("a\n\n\n\nb"))
	assert.Equal(t, "a\n\nb", CollapseBlankRuns("a\n\n\nb"))
	assert.Equal(t, "a\n\nb", CollapseBlankRuns("a\n\nb"))
	assert.Equal(t, "a\nb", CollapseBlankRuns("a\nb"))
}

func TestSegment(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Section
	}{
		{
			name: "empty",
			in:   "",
			want: []Section{},
		},
		{
			name: "untitled fallback",
			in:   "Just a line\nAnother line",
			want: []Section{{Title: "", Content: "Just a line\nAnother line"}},
		},
		{
			name: "orphan preamble",
			in:   "Intro words\n[Verse 1]\nVerse words",
			want: []Section{
				{Title: "", Content: "Intro words"},
				{Title: "Verse 1", Content: "Verse words"},
			},
		},
		{
			name: "repeated titles stay separate",
			in:   "[Chorus]\nA\n[Chorus]\nA",
			want: []Section{
				{Title: "Chorus", Content: "A"},
				{Title: "Chorus", Content: "A"},
			},
		},
		{
			name: "title without content",
			in:   "[Verse 1]",
			want: []Section{{Title: "Verse 1", Content: ""}},
		},
		{
			name: "mid-line brackets are content",
			in:   "Sing [loud] now",
			want: []Section{{Title: "", Content: "Sing [loud] now"}},
		},
		{
			name: "stanza break preserved",
			in:   "[Verse 1]\n\na\n\nb\n\n",
			want: []Section{{Title: "Verse 1", Content: "a\n\nb"}},
		},
		{
			name: "padded title line",
			in:   "  [Bridge]  \nx",
			want: []Section{{Title: "Bridge", Content: "x"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Segment(tt.in)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProcessLyrics(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Section
	}{
		{
			name: "reference noise",
			in:   "Amazing grace |12|",
			want: []Section{},
		},
		{
			name: "verse rewrite",
			in:   "*3.* Some words",
			want: []Section{{Title: "Verse 3", Content: "Some words"}},
		},
		{
			name: "chorus rewrite",
			in:   "*Chorus:*\nHallelujah",
			want: []Section{{Title: "Chorus", Content: "Hallelujah"}},
		},
		{
			name: "repeat marker removed",
			in:   "Hallelujah *x2*",
			want: []Section{{Title: "", Content: "Hallelujah"}},
		},
		{
			name: "blank run bounded",
			in:   "first\n\n\n\nsecond",
			want: []Section{{Title: "", Content: "first\n\nsecond"}},
		},
		{
			name: "untitled fallback",
			in:   "Just a line\nAnother line",
			want: []Section{{Title: "", Content: "Just a line\nAnother line"}},
		},
		{
			name: "full song",
			in:   amazingGrace,
			want: []Section{
				{Title: "Verse 1", Content: "Amazing grace, how sweet the sound\nThat saved a wretch like me"},
				{Title: "Chorus", Content: "My chains are gone"},
				{Title: "Verse 2", Content: "'Twas grace that taught\nMy heart to fear"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProcessLyrics(tt.in))
		})
	}
}

func TestProcessLyricsRepeatCountLeavesNoTrace(t *testing.T) {
	sections := ProcessLyrics("Hallelujah *x2*\nPraise him *x12*")
	require.Len(t, sections, 1)
	assert.NotContains(t, sections[0].Content, "x2")
	assert.NotContains(t, sections[0].Content, "12")
	assert.NotContains(t, sections[0].Content, "*")

	sections = ProcessLyrics("Sing *x*x2*2* loud")
	require.Len(t, sections, 1)
	assert.Equal(t, "Sing loud", sections[0].Content)
}

// rejoin renders sections back into markup with titles as bracket lines
func rejoin(sections []Section) string {
	var parts []string
	for _, s := range sections {
		if s.Title != "" {
			parts = append(parts, "["+s.Title+"]")
		}
		parts = append(parts, s.Content)
	}
	return strings.Join(parts, "\n")
}

var fixtures = []string{
	amazingGrace,
	"Just a line\nAnother line",
	"Intro\n*1.* One\n\n\n\nTwo\n*Chorus:*\nRefrain *x3*\n*Chorus:*\nRefrain",
	"*01.*\tLeading   zero\\n*x2*\\n|7|\\nlast",
	"Sing *x2* loud",
	"Sing *x*x2*2* loud\n*Chorus:* Amen *x3* amen",
	"",
}

func TestProcessLyricsIdempotent(t *testing.T) {
	for _, raw := range fixtures {
		once := ProcessLyrics(raw)
		twice := ProcessLyrics(rejoin(once))
		assert.Equal(t, once, twice, "input %q", raw)
	}
}

var (
	testVerseRegex  = regexp.MustCompile(`\*\d+\.\*`)
	testRepeatRegex = regexp.MustCompile(`\*x\d+\*`)
	testNoiseRegex  = regexp.MustCompile(`\|\d+\|`)
)

func countLyricChars(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

func TestProcessLyricsKeepsLyricCharacters(t *testing.T) {
	for _, raw := range fixtures {
		var kept []string
		for _, line := range strings.Split(strings.ReplaceAll(raw, `\n`, "\n"), "\n") {
			if testNoiseRegex.MatchString(line) {
				continue
			}
			line = testVerseRegex.ReplaceAllString(line, "")
			line = strings.ReplaceAll(line, "*Chorus:*", "")
			for testRepeatRegex.MatchString(line) {
				line = testRepeatRegex.ReplaceAllString(line, "")
			}
			kept = append(kept, line)
		}
		want := countLyricChars(strings.Join(kept, "\n"))

		got := 0
		for _, s := range ProcessLyrics(raw) {
			got += countLyricChars(s.Content)
		}
		assert.GreaterOrEqual(t, got, want, "input %q", raw)
	}
}

func TestAssembleSong(t *testing.T) {
	song := AssembleSong(SongInSet{
		SongNumber: 17,
		Title:      "Amazing Grace",
		Writer:     "John Newton",
		Lyrics:     amazingGrace,
	})

	assert.Equal(t, 17, song.SongNumber)
	assert.Equal(t, "Amazing Grace", song.Title)
	assert.Equal(t, "John Newton", song.Author)
	require.Len(t, song.Sections, 3)
	assert.Equal(t, "Verse 1", song.Sections[0].Title)
}

func TestAssembleSetKeepsOrder(t *testing.T) {
	songs := AssembleSet(&SetContent{SetData: []SongInSet{
		{SongNumber: 2, Title: "B", Lyrics: "b"},
		{SongNumber: 1, Title: "A", Lyrics: "a"},
	}})

	require.Len(t, songs, 2)
	assert.Equal(t, 2, songs[0].SongNumber)
	assert.Equal(t, 1, songs[1].SongNumber)
}

func TestProcessLyricsConcurrent(t *testing.T) {
	want := ProcessLyrics(amazingGrace)
	done := make(chan []Section, 8)
	for i := 0; i < 8; i++ {
		go func() { done <- ProcessLyrics(amazingGrace) }()
	}
	for i := 0; i < 8; i++ {
		assert.Equal(t, want, <-done)
	}
}

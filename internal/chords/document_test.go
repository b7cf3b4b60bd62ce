package chords

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSheet = `[Intro] C  G  Am  F

[Verse 1]
C       Am
Hello darkness my old friend
        Em          C
    I've come to talk with you again

[Chorus]
   F           C
And the vision that was planted in my brain
(C  G  Am  F)
G/B      C       D
Can't you see that it's just raining
`

func TestTransposeDocument(t *testing.T) {
	got := TransposeDocument("C       Am\nHello darkness my old friend", 2)
	assert.Equal(t, "D       Bm\nHello darkness my old friend", got)
}

func TestTransposeDocument_Sheet(t *testing.T) {
	got := TransposeDocument(sampleSheet, 2)
	lines := strings.Split(got, "\n")
	orig := strings.Split(sampleSheet, "\n")
	require.Len(t, lines, len(orig))

	assert.Equal(t, orig[0], lines[0], "section line untouched")
	assert.Equal(t, "D       Bm", lines[3])
	assert.Equal(t, orig[4], lines[4])
	assert.Equal(t, "        F#m          D", lines[5])
	assert.Equal(t, orig[6], lines[6])
	assert.Equal(t, "   G           D", lines[9])
	assert.Equal(t, "(D  A  Bm  G)", lines[11])
	assert.Equal(t, "A/C#      D       E", lines[12])
	assert.Equal(t, orig[13], lines[13])
	assert.Equal(t, "", lines[len(lines)-1], "trailing newline kept")
}

func TestTransposeDocument_ZeroIsIdentity(t *testing.T) {
	for _, text := range []string{"", "\n\n", sampleSheet, "C  G\r\nla la\r\n"} {
		assert.Equal(t, text, TransposeDocument(text, 0))
	}
}

func TestTransposeDocument_RoundTrip(t *testing.T) {
	for s := -12; s <= 12; s++ {
		assert.Equal(t, sampleSheet, TransposeDocument(TransposeDocument(sampleSheet, s), -s), "shift %d", s)
	}
}

func TestTransposeDocument_KeepsCarriageReturns(t *testing.T) {
	got := TransposeDocument("C  G\r\nla la\r\n", 2)
	assert.Equal(t, "D  A\r\nla la\r\n", got)
}

func TestTransposeDocumentConcurrent(t *testing.T) {
	for _, workers := range []int{0, 1, 3, 64} {
		got, err := TransposeDocumentConcurrent(context.Background(), sampleSheet, -3, workers)
		require.NoError(t, err)
		assert.Equal(t, TransposeDocument(sampleSheet, -3), got)
	}

	got, err := TransposeDocumentConcurrent(context.Background(), sampleSheet, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, sampleSheet, got)
}

func TestTransposeDocumentConcurrent_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := TransposeDocumentConcurrent(ctx, sampleSheet, 2, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolveTargetKeyShift(t *testing.T) {
	assert.Equal(t, 2, ResolveTargetKeyShift("C", "D"))
	assert.Equal(t, -1, ResolveTargetKeyShift("Am", "G#m"))
	assert.Equal(t, 0, ResolveTargetKeyShift("", "D"))
	assert.Equal(t, 0, ResolveTargetKeyShift("??", "D"))
}

func TestDisplayKeyLabel(t *testing.T) {
	tests := []struct {
		key       string
		semitones int
		want      string
	}{
		{"C", 2, "D"},
		{"Am", 2, "Bm"},
		{"G", -1, "F#"},
		{"Bb", 1, "B"},
		{"Bb", 3, "Db"},
		{"Ebm", 2, "Fm"},
		{"F#m", 1, "Gm"},
		{"C", 0, "C"},
		{"", 3, ""},
		{"unknown", 3, "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayKeyLabel(tt.key, tt.semitones))
		})
	}
}

func TestTransposeDocument_AccentedLyricsUntouched(t *testing.T) {
	text := "C       Am\nCoração  Gratidão\nCanções  de  Coração  Gratidão"
	got := TransposeDocument(text, 2)
	assert.Equal(t, "D       Bm\nCoração  Gratidão\nCanções  de  Coração  Gratidão", got)
}

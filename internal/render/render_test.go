package render

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/browser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sukalov/cifrabot/internal/chords"
	"github.com/sukalov/cifrabot/internal/sheets"
)

const sheetText = `[Intro] C  G  Am  F

[Verso]
C          G
Quando eu te vi
Am         F
Fechar a porta`

func testSheet() *sheets.Sheet {
	return &sheets.Sheet{
		URL:        "https://www.cifraclub.com.br/artista/musica",
		Artist:     "Artista",
		Title:      "Musica Boa",
		Key:        "C",
		Chords:     sheetText,
		YouTubeURL: "https://www.youtube.com/watch?v=abc123",
		Source:     sheets.SourceCifraClub,
	}
}

func view(t *testing.T, s *sheets.Sheet, req string) sheets.View {
	t.Helper()
	r, err := chords.ParseRequest(req)
	require.NoError(t, err)
	return sheets.NewView(s, r)
}

func TestHeaderLines(t *testing.T) {
	assert.Equal(t, []string{
		"Musica Boa - Artista",
		"Key: C",
		"YouTube: https://www.youtube.com/watch?v=abc123",
		"Source: https://www.cifraclub.com.br/artista/musica",
	}, HeaderLines(view(t, testSheet(), "0")))

	assert.Equal(t, []string{
		"Musica Boa - Artista",
		"Original key: C -> Current key: D",
		"Transposition: +2 semitones",
		"YouTube: https://www.youtube.com/watch?v=abc123",
		"Source: https://www.cifraclub.com.br/artista/musica",
	}, HeaderLines(view(t, testSheet(), "D")))

	s := testSheet()
	s.Key = ""
	s.YouTubeURL = ""
	assert.Equal(t, []string{
		"Musica Boa - Artista",
		"Transposition: -3 semitones",
		"Source: https://www.cifraclub.com.br/artista/musica",
	}, HeaderLines(view(t, s, "-3")))
}

func TestText(t *testing.T) {
	out := Text(view(t, testSheet(), "+2"))
	rule := strings.Repeat("=", 70)

	assert.True(t, strings.HasPrefix(out, "\n"+rule+"\nMusica Boa - Artista\n"+rule+"\n"))
	assert.Contains(t, out, "Original key: C -> Current key: D\nTransposition: +2 semitones\n")
	assert.Contains(t, out, "D          A\nQuando eu te vi\n")
	assert.True(t, strings.HasSuffix(out, "Fechar a porta\n\n"+rule+"\n"))
}

func TestDiff(t *testing.T) {
	d, err := Diff(view(t, testSheet(), "0"))
	require.NoError(t, err)
	assert.Empty(t, d)

	d, err = Diff(view(t, testSheet(), "+2"))
	require.NoError(t, err)
	assert.Contains(t, d, "--- original (C)\n+++ transposed +2 (D)\n")
	assert.Contains(t, d, "-C          G\n+D          A\n")
	assert.Contains(t, d, "-Am         F\n+Bm         G\n")
	assert.NotContains(t, d, "-Quando eu te vi")
}

func TestLayoutBlocks(t *testing.T) {
	blocks := layoutBlocks(sheetText)
	require.Len(t, blocks, 5)

	assert.Equal(t, block{lines: []string{"[Intro] C  G  Am  F"}}, blocks[0], "first section has no space above")
	assert.Equal(t, block{space: blankSpace}, blocks[1])
	assert.Equal(t, block{space: sectionSpace, lines: []string{"[Verso]"}}, blocks[2])
	assert.Equal(t, []string{"C          G", "Quando eu te vi"}, blocks[3].lines)
	assert.Equal(t, []string{"Am         F", "Fechar a porta"}, blocks[4].lines)
}

func TestLayoutBlocks_ChordLineBeforeSection(t *testing.T) {
	blocks := layoutBlocks("C  G  Am\n[Refrão]\nC  G")
	require.Len(t, blocks, 3)
	assert.Len(t, blocks[0].lines, 1)
	assert.Len(t, blocks[2].lines, 1, "last chord line has nothing to pair with")
}

func TestLayoutBlocks_TabIndentedChordLine(t *testing.T) {
	blocks := layoutBlocks("\t(Am  G)\nla la")
	require.Len(t, blocks, 1, "classified before tabs are expanded")
	assert.Equal(t, []string{"    (Am  G)", "la la"}, blocks[0].lines)
}

func TestPaginate(t *testing.T) {
	var blocks []block
	for i := 0; i < 150; i++ {
		blocks = append(blocks, block{lines: []string{"C  G", "la la la"}})
	}
	placed := paginate(blocks)
	require.Len(t, placed, 150)

	assert.Equal(t, placement{page: 1, column: 0, y: contentTop, lines: blocks[0].lines}, placed[0])

	perColumn := 0
	for _, p := range placed {
		if p.page == 1 && p.column == 0 {
			perColumn++
		}
		assert.LessOrEqual(t, p.y+blocks[0].height(), contentBottom+0.001)
	}
	assert.Equal(t, 29, perColumn)
	assert.Equal(t, placement{page: 1, column: 1, y: contentTop, lines: blocks[0].lines}, placed[perColumn])
	assert.Equal(t, 3, placed[len(placed)-1].page)
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, view(t, testSheet(), "+2")))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "Artista_Musica_Boa_C.pdf", FileName(view(t, testSheet(), "0")))
	assert.Equal(t, "Artista_Musica_Boa_A#.pdf", FileName(view(t, testSheet(), "Bb")), "label follows the chord spelling rules")

	s := testSheet()
	s.Key = ""
	s.Title = "AC/DC cover"
	assert.Equal(t, "Artista_AC_DC_cover_NoKey.pdf", FileName(view(t, s, "+1")))
}

func TestSavePDF(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	path, err := SavePDF(view(t, testSheet(), "-1"), dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Artista_Musica_Boa_B.pdf"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestOpen(t *testing.T) {
	var opened string
	openFile = func(path string) error {
		opened = path
		return nil
	}
	t.Cleanup(func() { openFile = browser.OpenFile })

	require.NoError(t, Open("pdf/a.pdf"))
	assert.Equal(t, "pdf/a.pdf", opened)

	openFile = func(string) error { return errors.New("no viewer") }
	assert.ErrorContains(t, Open("pdf/a.pdf"), "no viewer")
}

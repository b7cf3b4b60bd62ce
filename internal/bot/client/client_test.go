package client

import (
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sukalov/cifrabot/internal/chords"
	"github.com/sukalov/cifrabot/internal/db"
	"github.com/sukalov/cifrabot/internal/sheets"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		in      string
		url     string
		artist  string
		song    string
		request string
	}{
		{"Legião Urbana | Tempo Perdido", "", "Legião Urbana", "Tempo Perdido", "0"},
		{"Legião Urbana | Tempo Perdido +2", "", "Legião Urbana", "Tempo Perdido", "+2"},
		{"legiao urbana|tempo perdido -3", "", "legiao urbana", "tempo perdido", "-3"},
		{"Djavan | Oceano am", "", "Djavan", "Oceano", "Am"},
		{"Cazuza | E", "", "Cazuza", "E", "0"},
		{"Engenheiros | 1800 Colinas", "", "Engenheiros", "1800 Colinas", "0"},
		{"Titãs | Epitáfio 1999", "", "Titãs", "Epitáfio 1999", "0"},
		{"https://www.cifraclub.com.br/djavan/oceano", "https://www.cifraclub.com.br/djavan/oceano", "", "", "0"},
		{"https://amdm.ru/akkordi/kino/1/gruppa_krovi/ Dm", "https://amdm.ru/akkordi/kino/1/gruppa_krovi/", "", "", "Dm"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			q, err := parseQuery(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.url, q.URL)
			assert.Equal(t, tt.artist, q.Artist)
			assert.Equal(t, tt.song, q.Song)
			assert.Equal(t, tt.request, q.Request.String())
		})
	}
}

func TestParseQuery_Errors(t *testing.T) {
	for _, in := range []string{"", "   ", "just some words", "| Song", "Artist |", "https://x.test/a bogus", "https://x.test/a +1 extra"} {
		t.Run(in, func(t *testing.T) {
			_, err := parseQuery(in)
			assert.Error(t, err)
		})
	}

	_, err := parseQuery("https://x.test/a 20")
	assert.ErrorIs(t, err, chords.ErrShiftOutOfRange)
}

func testView(t *testing.T, text string, req string) sheets.View {
	t.Helper()
	r, err := chords.ParseRequest(req)
	require.NoError(t, err)
	sheet := &sheets.Sheet{
		URL:    "https://www.cifraclub.com.br/a/b",
		Artist: "A & B",
		Title:  "Song <1>",
		Key:    "G",
		Chords: text,
	}
	return sheets.NewView(sheet, r)
}

func TestSheetMessages(t *testing.T) {
	msgs := sheetMessages(testView(t, "G  D\nla & la", "+2"))
	require.Len(t, msgs, 1)

	assert.True(t, strings.HasPrefix(msgs[0], "<b>Song &lt;1&gt; - A &amp; B</b>\n"))
	assert.Contains(t, msgs[0], "Original key: G -&gt; Current key: A\n")
	assert.Contains(t, msgs[0], "Transposition: +2 semitones\n")
	assert.True(t, strings.HasSuffix(msgs[0], "\n\n<pre>A  E\nla &amp; la</pre>"))
}

func TestSheetMessages_Long(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 300; i++ {
		fmt.Fprintf(&b, "G       D       Em       C\nverse line number %03d\n", i)
	}
	msgs := sheetMessages(testView(t, b.String(), "0"))

	require.Greater(t, len(msgs), 1)
	assert.True(t, strings.HasPrefix(msgs[0], "<b>"))
	for _, m := range msgs[1:] {
		assert.True(t, strings.HasPrefix(m, "<pre>"))
		assert.LessOrEqual(t, len([]rune(m)), 4096)
	}
}

func TestSheetKeyboard(t *testing.T) {
	kb := sheetKeyboard(-3)
	require.Len(t, kb.InlineKeyboard, 2)

	row := kb.InlineKeyboard[0]
	require.Len(t, row, 3)
	assert.Equal(t, "-1", row[0].Text)
	assert.Equal(t, "shift:-1", *row[0].CallbackData)
	assert.Equal(t, "-3", row[1].Text)
	assert.Equal(t, "reset", *row[1].CallbackData)
	assert.Equal(t, "shift:+1", *row[2].CallbackData)

	assert.Equal(t, "pdf", *kb.InlineKeyboard[1][0].CallbackData)
	assert.Equal(t, "save", *kb.InlineKeyboard[1][1].CallbackData)
	assert.Equal(t, "+4", sheetKeyboard(4).InlineKeyboard[0][1].Text)
}

func TestNudge(t *testing.T) {
	assert.Equal(t, "+1", nudge(0, 1).String())
	assert.Equal(t, "-1", nudge(0, -1).String())
	assert.Equal(t, "0", nudge(11, 1).String())
	assert.Equal(t, "0", nudge(-11, -1).String())
	assert.Equal(t, "+6", nudge(5, 1).String())
}

func TestSongbookMessage(t *testing.T) {
	songs := []db.Song{
		{ID: 3, Artist: "Djavan", Title: "Oceano"},
		{ID: 8, Artist: "Cazuza", Title: "Exagerado", Request: sql.NullString{String: "+2", Valid: true}},
	}
	text, kb := songbookMessage(songs)

	assert.Equal(t, "your songbook:\n\n#3 Djavan - Oceano\n#8 Cazuza - Exagerado [+2]", text)
	require.Len(t, kb.InlineKeyboard, 2)
	assert.Equal(t, "open:8", *kb.InlineKeyboard[1][0].CallbackData)
}

func TestSongbookMessage_ManySongs(t *testing.T) {
	var songs []db.Song
	for i := 1; i <= 25; i++ {
		songs = append(songs, db.Song{ID: int64(i), Title: fmt.Sprintf("song %d", i)})
	}
	text, kb := songbookMessage(songs)

	assert.Len(t, kb.InlineKeyboard, maxSongbookButtons)
	assert.Contains(t, text, "#25 song 25")
	assert.True(t, strings.HasSuffix(text, "(buttons for the first 20 of 25)"))
}

func TestTopMessage(t *testing.T) {
	got := topMessage(map[string]int{"u/c": 1, "u/a": 5, "u/b": 5, "u/d": 2}, 3)
	assert.Equal(t, "your most requested songs:\n\n1. u/a (5)\n2. u/b (5)\n3. u/d (2)", got)
}

func TestSavedRequest(t *testing.T) {
	assert.Equal(t, "", savedRequest("0"))
	assert.Equal(t, "+2", savedRequest("+2"))
	assert.Equal(t, "Am", savedRequest("Am"))
	assert.False(t, nullString("").Valid)
	assert.True(t, nullString("D").Valid)
}

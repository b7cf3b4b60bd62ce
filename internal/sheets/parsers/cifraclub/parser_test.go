package cifraclub

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const songPage = `<html><head><title>The Scientist</title></head><body>
<h1 class="t1">The Scientist</h1>
<h2 class="t3"><a href="/coldplay/">Coldplay</a></h2>
<span id="cifra_tom">tom: <a class="js-modal-trigger" href="#">F</a></span>
<iframe src="https://www.youtube.com/embed/x"></iframe>
<a href="https://www.youtube.com/watch?v=RB-RcX5DS5A">video</a>
<pre>[Intro] <b>Dm7</b>  <b>Bb</b>  <b>F</b>

[Primeira Parte]
<b>Dm7</b>            <b>Bb</b>
   Come up to meet you
</pre>
</body></html>`

type fakeFetcher struct {
	pages map[string]string
	urls  []string
	err   error
}

func (f *fakeFetcher) FetchPage(_ context.Context, url string) (string, error) {
	f.urls = append(f.urls, url)
	if f.err != nil {
		return "", f.err
	}
	return f.pages[url], nil
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "the-scientist", Slug("The Scientist"))
	assert.Equal(t, "coldplay", Slug("  coldplay "))
}

func TestSongURL(t *testing.T) {
	p := NewParser(nil, "")
	assert.Equal(t, "https://www.cifraclub.com.br/coldplay/the-scientist", p.SongURL("Coldplay", "The Scientist"))

	p = NewParser(nil, "http://127.0.0.1:8080")
	assert.Equal(t, "http://127.0.0.1:8080/a/b", p.SongURL("a", "b"))
}

func TestParseHTML(t *testing.T) {
	res, err := ParseHTML("https://www.cifraclub.com.br/coldplay/the-scientist", songPage)
	require.NoError(t, err)

	assert.Equal(t, "Coldplay", res.Artist)
	assert.Equal(t, "The Scientist", res.Title)
	assert.Equal(t, "F", res.Key)
	assert.Equal(t, "https://www.youtube.com/watch?v=RB-RcX5DS5A", res.YouTubeURL)
	assert.Equal(t, "[Intro] Dm7  Bb  F\n\n[Primeira Parte]\nDm7            Bb\n   Come up to meet you", res.Chords)
	assert.False(t, res.FetchedAt.IsZero())
}

func TestParseHTML_KeyFromSheet(t *testing.T) {
	page := `<h1 class="t1">Song</h1><pre>Tom: Am

Am  G</pre>`
	res, err := ParseHTML("u", page)
	require.NoError(t, err)
	assert.Equal(t, "Am", res.Key)
	assert.Equal(t, UnknownArtist, res.Artist)
}

func TestParseHTML_NoKeyNoVideo(t *testing.T) {
	res, err := ParseHTML("u", `<pre>C  G</pre>`)
	require.NoError(t, err)
	assert.Empty(t, res.Key)
	assert.Empty(t, res.YouTubeURL)
	assert.Equal(t, UnknownSong, res.Title)
}

func TestParseHTML_ShortYouTubeLink(t *testing.T) {
	res, err := ParseHTML("u", `<a href="https://youtu.be/abc_123">v</a><pre>C  G</pre>`)
	require.NoError(t, err)
	assert.Equal(t, "https://www.youtube.com/watch?v=abc_123", res.YouTubeURL)
}

func TestParseHTML_NoChords(t *testing.T) {
	_, err := ParseHTML("u", `<html><body><p>404</p></body></html>`)
	assert.ErrorIs(t, err, ErrChordsNotFound)
}

func TestFetchSheet(t *testing.T) {
	url := "https://www.cifraclub.com.br/coldplay/the-scientist"
	f := &fakeFetcher{pages: map[string]string{url: songPage}}
	p := NewParser(f, "")

	res, err := p.FetchSheet(context.Background(), "coldplay", "the scientist")
	require.NoError(t, err)
	assert.Equal(t, []string{url}, f.urls)
	assert.Equal(t, url, res.URL)
	assert.Equal(t, "F", res.Key)
}

func TestFetchSheet_FetchError(t *testing.T) {
	boom := errors.New("timeout")
	p := NewParser(&fakeFetcher{err: boom}, "")

	_, err := p.FetchSheet(context.Background(), "a", "b")
	assert.ErrorIs(t, err, boom)
}

func TestOwns(t *testing.T) {
	p := NewParser(nil, "")
	assert.True(t, p.Owns("https://www.cifraclub.com.br/coldplay/yellow/"))
	assert.False(t, p.Owns("https://amdm.ru/akkordi/x/1/y/"))
}

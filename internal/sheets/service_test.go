package sheets

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sukalov/cifrabot/internal/chords"
)

const cifraPage = `<h1 class="t1">Yellow</h1><h2 class="t3">Coldplay</h2>
<span id="cifra_tom"><a>b</a></span>
<pre>B          F#
Look at the stars</pre>`

type fakeFetcher struct {
	mu    sync.Mutex
	pages map[string]string
	calls int
}

func (f *fakeFetcher) FetchPage(_ context.Context, url string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	page, ok := f.pages[url]
	if !ok {
		return "", errors.New("HTTP error! status: 404")
	}
	return page, nil
}

type memCache struct {
	sheets map[string]*Sheet
	err    error
}

func (m *memCache) GetSheet(_ context.Context, url string) (*Sheet, error) {
	if m.err != nil {
		return nil, m.err
	}
	s, ok := m.sheets[url]
	if !ok {
		return nil, ErrCacheMiss
	}
	return s, nil
}

func (m *memCache) SetSheet(_ context.Context, s *Sheet) error {
	m.sheets[s.URL] = s
	return nil
}

const yellowURL = "https://www.cifraclub.com.br/coldplay/yellow"

func TestFetchSong(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{yellowURL: cifraPage}}
	svc := NewService(f, Options{})

	sheet, err := svc.FetchSong(context.Background(), "Coldplay", "Yellow")
	require.NoError(t, err)

	assert.Equal(t, "Coldplay", sheet.Artist)
	assert.Equal(t, "Yellow", sheet.Title)
	assert.Equal(t, "B", sheet.Key, "key normalized")
	assert.Equal(t, SourceCifraClub, sheet.Source)
	assert.Equal(t, yellowURL, sheet.URL)
}

func TestFetchSong_MissingArgs(t *testing.T) {
	svc := NewService(&fakeFetcher{}, Options{})
	_, err := svc.FetchSong(context.Background(), "", "Yellow")
	assert.Error(t, err)
}

func TestFetch_Unsupported(t *testing.T) {
	svc := NewService(&fakeFetcher{}, Options{})
	_, err := svc.Fetch(context.Background(), "https://example.com/song")
	assert.ErrorIs(t, err, ErrUnsupportedSource)
}

func TestFetch_NoChordBlock(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{yellowURL: `<p>nothing</p>`}}
	svc := NewService(f, Options{})
	_, err := svc.Fetch(context.Background(), yellowURL)
	assert.ErrorIs(t, err, ErrSheetNotFound)
}

func TestFetch_Amdm(t *testing.T) {
	url := "https://amdm.ru/akkordi/kino/1/gruppa_krovi/"
	f := &fakeFetcher{pages: map[string]string{url: `<h1>Кино - Группа крови, аккорды</h1><pre itemprop="chordsBlock">Am  C
Тёплое место</pre>`}}
	svc := NewService(f, Options{})

	sheet, err := svc.Fetch(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, SourceAmdm, sheet.Source)
	assert.Equal(t, "Кино", sheet.Artist)
	assert.Empty(t, sheet.Key)
}

func TestFetch_UsesCache(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{yellowURL: cifraPage}}
	cache := &memCache{sheets: map[string]*Sheet{}}
	svc := NewService(f, Options{Cache: cache})

	first, err := svc.Fetch(context.Background(), yellowURL)
	require.NoError(t, err)
	second, err := svc.Fetch(context.Background(), yellowURL)
	require.NoError(t, err)

	assert.Equal(t, 1, f.calls)
	assert.Equal(t, first, second)
	assert.Contains(t, cache.sheets, yellowURL)
}

func TestFetch_BrokenCacheFallsBackToNetwork(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{yellowURL: cifraPage}}
	cache := &memCache{sheets: map[string]*Sheet{}, err: errors.New("connection refused")}
	svc := NewService(f, Options{Cache: cache})

	_, err := svc.Fetch(context.Background(), yellowURL)
	require.NoError(t, err)
	assert.Equal(t, 1, f.calls)
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "C#m", normalizeKey("c#m"))
	assert.Equal(t, "Bb", normalizeKey("Bb"))
	assert.Equal(t, "", normalizeKey("H"))
	assert.Equal(t, "", normalizeKey(""))
}

func TestNewView(t *testing.T) {
	sheet := &Sheet{Key: "G", Chords: "G       D\nla la la"}

	req, err := chords.ParseRequest("A")
	require.NoError(t, err)
	v := NewView(sheet, req)
	assert.Equal(t, 2, v.Semitones)
	assert.Equal(t, "A", v.CurrentKey)
	assert.Equal(t, "A       E\nla la la", v.Text)
	assert.True(t, v.Transposed())

	req, err = chords.ParseRequest("0")
	require.NoError(t, err)
	v = NewView(sheet, req)
	assert.False(t, v.Transposed())
	assert.Equal(t, sheet.Chords, v.Text)
	assert.Equal(t, "G", v.CurrentKey)
}

func TestNewView_KeyRequestWithoutSourceKey(t *testing.T) {
	sheet := &Sheet{Chords: "G       D"}
	req, err := chords.ParseRequest("A")
	require.NoError(t, err)

	v := NewView(sheet, req)
	assert.Equal(t, 0, v.Semitones)
	assert.Equal(t, sheet.Chords, v.Text)
}

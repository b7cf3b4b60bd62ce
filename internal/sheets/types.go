package sheets

import (
	"context"
	"errors"
	"time"
)

const (
	SourceCifraClub = "cifraclub.com.br"
	SourceAmdm      = "amdm.ru"
)

var (
	ErrUnsupportedSource = errors.New("unsupported URL source")
	ErrSheetNotFound     = errors.New("chord sheet not found")
	ErrCacheMiss         = errors.New("sheet not in cache")
)

// Sheet is a fetched chord sheet plus the metadata shown around it.
// Key is empty when the page does not state one.
type Sheet struct {
	URL        string    `json:"url"`
	Artist     string    `json:"artist"`
	Title      string    `json:"title"`
	Key        string    `json:"key,omitempty"`
	Chords     string    `json:"chords"`
	YouTubeURL string    `json:"youtube_url,omitempty"`
	Source     string    `json:"source"`
	FetchedAt  time.Time `json:"fetched_at"`
}

// Cache stores fetched sheets by URL
type Cache interface {
	GetSheet(ctx context.Context, url string) (*Sheet, error)
	SetSheet(ctx context.Context, sheet *Sheet) error
}

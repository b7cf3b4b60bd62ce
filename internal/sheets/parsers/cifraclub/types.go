package cifraclub

import (
	"errors"
	"time"
)

const (
	BaseURL       = "https://www.cifraclub.com.br/"
	UnknownArtist = "Unknown artist"
	UnknownSong   = "Unknown song"
)

var ErrChordsNotFound = errors.New("chord block not found")

// SheetResult is what a cifraclub song page yields
type SheetResult struct {
	URL        string    `json:"url"`
	Artist     string    `json:"artist"`
	Title      string    `json:"title"`
	Key        string    `json:"key,omitempty"`
	Chords     string    `json:"chords"`
	YouTubeURL string    `json:"youtube_url,omitempty"`
	FetchedAt  time.Time `json:"fetched_at"`
}

package amdm

import (
	"errors"
	"time"
)

var ErrChordsNotFound = errors.New("could not find target element with chords and lyrics")

// SheetResult represents the extracted chord sheet
type SheetResult struct {
	URL       string    `json:"url"`
	Artist    string    `json:"artist"`
	Title     string    `json:"title"`
	Chords    string    `json:"chords"`
	FetchedAt time.Time `json:"fetched_at"`
}

// ProcessingConfig holds configuration for text processing
type ProcessingConfig struct {
	MaxLineBreaks int
}

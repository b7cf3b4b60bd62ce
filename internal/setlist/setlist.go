package setlist

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sukalov/cifrabot/internal/chords"
	"go.yaml.in/yaml/v3"
)

var ErrInvalidEntry = errors.New("invalid setlist entry")

// Setlist is a named list of songs to print together
type Setlist struct {
	Title string  `yaml:"title"`
	Songs []Entry `yaml:"songs"`
}

// Entry names a song either by URL or by artist and song, with an optional
// shift or target key
type Entry struct {
	Artist string `yaml:"artist,omitempty"`
	Song   string `yaml:"song,omitempty"`
	URL    string `yaml:"url,omitempty"`
	Shift  int    `yaml:"shift,omitempty"`
	Key    string `yaml:"key,omitempty"`
}

func Load(path string) (*Setlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read setlist: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Setlist, error) {
	var set Setlist
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse setlist: %w", err)
	}
	for i, entry := range set.Songs {
		if err := entry.validate(); err != nil {
			return nil, fmt.Errorf("song %d: %w", i+1, err)
		}
	}
	return &set, nil
}

func (e Entry) validate() error {
	if e.URL == "" && (strings.TrimSpace(e.Artist) == "" || strings.TrimSpace(e.Song) == "") {
		return fmt.Errorf("%w: needs url or artist and song", ErrInvalidEntry)
	}
	if e.Shift != 0 && e.Key != "" {
		return fmt.Errorf("%w: shift and key are mutually exclusive", ErrInvalidEntry)
	}
	_, err := e.Request()
	return err
}

// Request is the transposition the entry asks for
func (e Entry) Request() (chords.Request, error) {
	if e.Key != "" {
		key, err := chords.ParseKey(e.Key)
		if err != nil {
			return chords.Request{}, err
		}
		return chords.ToKey(key), nil
	}
	return chords.ShiftBy(e.Shift)
}

// Name is how the entry is referred to in messages
func (e Entry) Name() string {
	if e.Artist != "" && e.Song != "" {
		return e.Artist + " - " + e.Song
	}
	return e.URL
}

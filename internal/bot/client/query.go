package client

import (
	"errors"
	"strings"

	"github.com/sukalov/cifrabot/internal/chords"
)

var ErrBadQuery = errors.New("expected 'artist | song' or a link")

// query is what a user asked for: a sheet and how to transpose it
type query struct {
	URL     string
	Artist  string
	Song    string
	Request chords.Request
}

// parseQuery reads "Artist | Song [shift|key]" or "<url> [shift|key]".
// A trailing word of the song part is taken as the request only when it
// parses as one and the song keeps at least one word.
func parseQuery(text string) (query, error) {
	var q query
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return q, ErrBadQuery
	}

	if isURL(fields[0]) {
		q.URL = fields[0]
		switch len(fields) {
		case 1:
			q.Request, _ = chords.ShiftBy(0)
			return q, nil
		case 2:
			req, err := chords.ParseRequest(fields[1])
			if err != nil {
				return q, err
			}
			q.Request = req
			return q, nil
		default:
			return q, ErrBadQuery
		}
	}

	artist, song, ok := strings.Cut(text, "|")
	if !ok {
		return q, ErrBadQuery
	}
	q.Artist = strings.TrimSpace(artist)
	words := strings.Fields(song)
	if q.Artist == "" || len(words) == 0 {
		return q, ErrBadQuery
	}

	q.Request, _ = chords.ShiftBy(0)
	if len(words) > 1 {
		if req, err := chords.ParseRequest(words[len(words)-1]); err == nil {
			q.Request = req
			words = words[:len(words)-1]
		}
	}
	q.Song = strings.Join(words, " ")
	return q, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

package render

import (
	"fmt"

	"github.com/sukalov/cifrabot/internal/sheets"
)

// KeyLine describes the key of a view: just the key, or where the
// transposition took it
func KeyLine(v sheets.View) string {
	if v.Sheet.Key == "" {
		if v.Transposed() {
			return fmt.Sprintf("Transposition: %s semitones", signed(v.Semitones))
		}
		return ""
	}
	if !v.Transposed() {
		return "Key: " + v.Sheet.Key
	}
	return fmt.Sprintf("Original key: %s -> Current key: %s", v.Sheet.Key, v.CurrentKey)
}

// HeaderLines are the lines printed above a sheet, title first
func HeaderLines(v sheets.View) []string {
	lines := []string{Title(v.Sheet)}
	if kl := KeyLine(v); kl != "" {
		lines = append(lines, kl)
	}
	if v.Sheet.Key != "" && v.Transposed() {
		lines = append(lines, fmt.Sprintf("Transposition: %s semitones", signed(v.Semitones)))
	}
	if v.Sheet.YouTubeURL != "" {
		lines = append(lines, "YouTube: "+v.Sheet.YouTubeURL)
	}
	lines = append(lines, "Source: "+v.Sheet.URL)
	return lines
}

func Title(s *sheets.Sheet) string {
	return fmt.Sprintf("%s - %s", s.Title, s.Artist)
}

func signed(n int) string {
	if n > 0 {
		return fmt.Sprintf("+%d", n)
	}
	return fmt.Sprintf("%d", n)
}

package cifraclub

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	tomRegex       = regexp.MustCompile(`(?i)Tom:\s*([A-G][#b]?m?)`)
	youtubeRegex   = regexp.MustCompile(`youtube\.com/watch\?v=([A-Za-z0-9_-]+)`)
	youtuBeRegex   = regexp.MustCompile(`youtu\.be/([A-Za-z0-9_-]+)`)
	youtubeWatchAt = "https://www.youtube.com/watch?v=%s"
)

func extractArtist(doc *goquery.Document) string {
	if s := strings.TrimSpace(doc.Find("h2.t3").First().Text()); s != "" {
		return s
	}
	return UnknownArtist
}

func extractTitle(doc *goquery.Document) string {
	if s := strings.TrimSpace(doc.Find("h1.t1").First().Text()); s != "" {
		return s
	}
	return UnknownSong
}

// extractKey prefers the key link in the page header and falls back to a
// "Tom: X" line inside the sheet. Empty when the page has neither.
func extractKey(doc *goquery.Document) string {
	if s := strings.TrimSpace(doc.Find("span#cifra_tom a").First().Text()); s != "" {
		return s
	}

	pre := doc.Find("pre").First()
	if pre.Length() == 0 {
		return ""
	}
	if m := tomRegex.FindStringSubmatch(pre.Text()); m != nil {
		return m[1]
	}
	return ""
}

func extractChords(doc *goquery.Document) (string, bool) {
	pre := doc.Find("pre").First()
	if pre.Length() == 0 {
		return "", false
	}
	return strings.TrimSpace(pre.Text()), true
}

func extractYouTube(html string) string {
	if m := youtubeRegex.FindStringSubmatch(html); m != nil {
		return fmt.Sprintf(youtubeWatchAt, m[1])
	}
	if m := youtuBeRegex.FindStringSubmatch(html); m != nil {
		return fmt.Sprintf(youtubeWatchAt, m[1])
	}
	return ""
}

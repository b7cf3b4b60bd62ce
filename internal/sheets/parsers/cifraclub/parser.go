package cifraclub

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sukalov/cifrabot/internal/logger"
)

// PageFetcher downloads a page as HTML
type PageFetcher interface {
	FetchPage(ctx context.Context, url string) (string, error)
}

// Parser fetches cifraclub.com.br song pages and extracts the sheet
type Parser struct {
	client  PageFetcher
	baseURL string
}

// NewParser creates a cifraclub parser. An empty baseURL means BaseURL.
func NewParser(client PageFetcher, baseURL string) *Parser {
	if baseURL == "" {
		baseURL = BaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Parser{client: client, baseURL: baseURL}
}

// Slug turns user input like "The Scientist" into the path segment "the-scientist"
func Slug(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-")
}

// SongURL builds the page URL for an artist and song
func (p *Parser) SongURL(artist, song string) string {
	return fmt.Sprintf("%s%s/%s", p.baseURL, Slug(artist), Slug(song))
}

// Owns reports whether url points at this parser's site
func (p *Parser) Owns(url string) bool {
	return strings.Contains(url, "cifraclub.com") || strings.HasPrefix(url, p.baseURL)
}

// FetchSheet fetches the sheet of a song by artist and song name
func (p *Parser) FetchSheet(ctx context.Context, artist, song string) (*SheetResult, error) {
	return p.ExtractSheet(ctx, p.SongURL(artist, song))
}

// ExtractSheet fetches a song page and extracts its sheet
func (p *Parser) ExtractSheet(ctx context.Context, url string) (*SheetResult, error) {
	logger.Debug(fmt.Sprintf("cifraclub.ExtractSheet: Fetching page %s", url))

	html, err := p.client.FetchPage(ctx, url)
	if err != nil {
		logger.Error(fmt.Sprintf("cifraclub.ExtractSheet: Failed to fetch page %s\nError: %v", url, err))
		return nil, err
	}

	logger.Debug(fmt.Sprintf("cifraclub.ExtractSheet: Successfully fetched page %s (HTML length: %d chars)", url, len(html)))

	result, err := ParseHTML(url, html)
	if err != nil {
		logger.Error(fmt.Sprintf("cifraclub.ExtractSheet: Failed to extract sheet from %s\nError: %v", url, err))
		return nil, err
	}

	logger.Success(fmt.Sprintf("cifraclub.ExtractSheet: Extracted %s - %s (key: %q, %d chars)", result.Title, result.Artist, result.Key, len(result.Chords)))
	return result, nil
}

// ParseHTML extracts a sheet from an already fetched page
func ParseHTML(url, html string) (*SheetResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	chords, ok := extractChords(doc)
	if !ok {
		return nil, fmt.Errorf("%s: %w", url, ErrChordsNotFound)
	}

	return &SheetResult{
		URL:        url,
		Artist:     extractArtist(doc),
		Title:      extractTitle(doc),
		Key:        extractKey(doc),
		Chords:     chords,
		YouTubeURL: extractYouTube(html),
		FetchedAt:  time.Now(),
	}, nil
}

package amdm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sukalov/cifrabot/internal/logger"
)

const chordsBlockSelector = `pre[itemprop="chordsBlock"]`

// PageFetcher downloads a page as HTML
type PageFetcher interface {
	FetchPage(ctx context.Context, url string) (string, error)
}

// Parser handles the HTML parsing and sheet extraction
type Parser struct {
	client PageFetcher
	config *ProcessingConfig
}

// NewParser creates a new AmDm parser
func NewParser(client PageFetcher) *Parser {
	return &Parser{
		client: client,
		config: &ProcessingConfig{
			MaxLineBreaks: 3,
		},
	}
}

// Owns reports whether url is an amdm.ru page
func (p *Parser) Owns(url string) bool {
	return strings.Contains(url, "amdm.ru")
}

// normalizeURL maps mirror hosts to the main site
func normalizeURL(url string) string {
	return strings.Replace(url, "123.amdm.ru", "amdm.ru", 1)
}

// ExtractSheet extracts the chord sheet from an AmDm.ru page
func (p *Parser) ExtractSheet(ctx context.Context, url string) (*SheetResult, error) {
	fetchURL := normalizeURL(url)
	logger.Debug(fmt.Sprintf("amdm.ExtractSheet: Fetching page %s", fetchURL))

	html, err := p.client.FetchPage(ctx, fetchURL)
	if err != nil {
		logger.Error(fmt.Sprintf("amdm.ExtractSheet: Failed to fetch page %s\nError: %v", fetchURL, err))
		return nil, err
	}

	logger.Debug(fmt.Sprintf("amdm.ExtractSheet: Successfully fetched page %s (HTML length: %d chars)", fetchURL, len(html)))

	return p.ParseHTML(url, html)
}

// ParseHTML extracts the sheet from an already fetched page
func (p *Parser) ParseHTML(url, html string) (*SheetResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		logger.Error(fmt.Sprintf("amdm.ParseHTML: Failed to parse HTML for %s\nError: %v", url, err))
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	// <pre itemprop="chordsBlock" class="field__podbor_new podbor__text">
	selection := doc.Find(chordsBlockSelector).First()
	if selection.Length() == 0 {
		logger.Error(fmt.Sprintf("amdm.ParseHTML: Target element not found for URL %s\nSearched for: %s", url, chordsBlockSelector))
		return nil, fmt.Errorf("%s: %w", url, ErrChordsNotFound)
	}

	artist, title := splitHeading(doc.Find("h1").First().Text())
	chords := p.processSheet(selection)

	logger.Debug(fmt.Sprintf("amdm.ParseHTML: Processed sheet text (length: %d chars)", len(chords)))

	return &SheetResult{
		URL:       url,
		Artist:    artist,
		Title:     title,
		Chords:    chords,
		FetchedAt: time.Now(),
	}, nil
}

// splitHeading reads "Artist - Title, аккорды" style headings
func splitHeading(heading string) (artist, title string) {
	heading = strings.TrimSpace(heading)
	if i := strings.LastIndex(heading, ","); i > 0 {
		heading = strings.TrimSpace(heading[:i])
	}
	if a, t, ok := strings.Cut(heading, " - "); ok {
		return strings.TrimSpace(a), strings.TrimSpace(t)
	}
	return "", heading
}

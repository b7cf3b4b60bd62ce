package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sukalov/cifrabot/internal/chords"
	"github.com/sukalov/cifrabot/internal/logger"
	"github.com/sukalov/cifrabot/internal/sheets/parsers/amdm"
	"github.com/sukalov/cifrabot/internal/sheets/parsers/cifraclub"
)

// PageFetcher downloads a page as HTML
type PageFetcher interface {
	FetchPage(ctx context.Context, url string) (string, error)
}

// Options configures a Service. Cache may be nil.
type Options struct {
	CifraClubBaseURL string
	Cache            Cache
}

// Service handles sheet extraction for the supported sites
type Service struct {
	cifraclubParser *cifraclub.Parser
	amdmParser      *amdm.Parser
	cache           Cache
}

// NewService creates a new sheet service
func NewService(client PageFetcher, opts Options) *Service {
	return &Service{
		cifraclubParser: cifraclub.NewParser(client, opts.CifraClubBaseURL),
		amdmParser:      amdm.NewParser(client),
		cache:           opts.Cache,
	}
}

// SongURL returns the cifraclub page of an artist's song
func (s *Service) SongURL(artist, song string) string {
	return s.cifraclubParser.SongURL(artist, song)
}

// FetchSong fetches a cifraclub sheet by artist and song name
func (s *Service) FetchSong(ctx context.Context, artist, song string) (*Sheet, error) {
	if strings.TrimSpace(artist) == "" || strings.TrimSpace(song) == "" {
		return nil, fmt.Errorf("artist and song are required")
	}
	return s.Fetch(ctx, s.SongURL(artist, song))
}

// Fetch extracts a sheet from a URL based on the source, using the cache when present
func (s *Service) Fetch(ctx context.Context, url string) (*Sheet, error) {
	logger.Debug(fmt.Sprintf("Fetch called with URL: %s", url))

	if s.cache != nil {
		sheet, err := s.cache.GetSheet(ctx, url)
		switch {
		case err == nil:
			logger.Debug(fmt.Sprintf("Cache hit for URL: %s", url))
			return sheet, nil
		case !errors.Is(err, ErrCacheMiss):
			logger.Error(fmt.Sprintf("Cache lookup failed for URL: %s\nError: %v", url, err))
		}
	}

	var (
		sheet *Sheet
		err   error
	)
	switch {
	case s.cifraclubParser.Owns(url):
		sheet, err = s.extractFromCifraClub(ctx, url)
	case s.amdmParser.Owns(url):
		sheet, err = s.extractFromAmdm(ctx, url)
	default:
		logger.Error(fmt.Sprintf("Unsupported URL source: %s", url))
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, url)
	}
	if err != nil {
		return nil, err
	}

	sheet.Key = normalizeKey(sheet.Key)

	if s.cache != nil {
		if err := s.cache.SetSheet(ctx, sheet); err != nil {
			logger.Error(fmt.Sprintf("Cache store failed for URL: %s\nError: %v", url, err))
		}
	}

	return sheet, nil
}

func (s *Service) extractFromCifraClub(ctx context.Context, url string) (*Sheet, error) {
	result, err := s.cifraclubParser.ExtractSheet(ctx, url)
	if err != nil {
		if errors.Is(err, cifraclub.ErrChordsNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrSheetNotFound, err)
		}
		return nil, err
	}

	return &Sheet{
		URL:        result.URL,
		Artist:     result.Artist,
		Title:      result.Title,
		Key:        result.Key,
		Chords:     result.Chords,
		YouTubeURL: result.YouTubeURL,
		Source:     SourceCifraClub,
		FetchedAt:  result.FetchedAt,
	}, nil
}

func (s *Service) extractFromAmdm(ctx context.Context, url string) (*Sheet, error) {
	result, err := s.amdmParser.ExtractSheet(ctx, url)
	if err != nil {
		if errors.Is(err, amdm.ErrChordsNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrSheetNotFound, err)
		}
		return nil, err
	}

	logger.Debug(fmt.Sprintf("extractFromAmdm succeeded for URL: %s\nSheet length: %d chars", url, len(result.Chords)))

	return &Sheet{
		URL:       result.URL,
		Artist:    result.Artist,
		Title:     result.Title,
		Chords:    result.Chords,
		Source:    SourceAmdm,
		FetchedAt: result.FetchedAt,
	}, nil
}

// normalizeKey spells a scraped key the way the transposer expects,
// dropping it when it does not parse
func normalizeKey(raw string) string {
	if raw == "" {
		return ""
	}
	key, err := chords.ParseKey(raw)
	if err != nil {
		logger.Debug(fmt.Sprintf("Ignoring unparseable key %q", raw))
		return ""
	}
	return key.String()
}

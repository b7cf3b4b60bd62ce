package httputil

import (
	"compress/gzip"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sukalov/cifrabot/internal/logger"
)

const (
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

// StatusError is returned for any non-200 answer
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error fetching %s: status %d", e.URL, e.StatusCode)
}

// Options tunes the page client. Zero values fall back to the defaults.
type Options struct {
	Timeout    time.Duration
	UserAgent  string
	MaxRetries int
	HTTPClient *http.Client
}

// Client fetches chord sheet pages
type Client struct {
	httpClient *http.Client
	userAgent  string
	maxRetries int
}

// NewClient creates a page client
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					MinVersion: tls.VersionTLS12,
				},
				// gzip is negotiated by hand below
				DisableCompression: true,
			},
		}
	}

	return &Client{
		httpClient: httpClient,
		userAgent:  opts.UserAgent,
		maxRetries: opts.MaxRetries,
	}
}

// FetchPage fetches the HTML content from the given URL
func (c *Client) FetchPage(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to create HTTP request\nURL: %s\nError: %v", url, err))
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "pt-BR,pt;q=0.9,en;q=0.5")
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := DoWithRetry(ctx, c.httpClient, req, c.maxRetries)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to fetch page\nURL: %s\nError: %v", url, err))
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Error(fmt.Sprintf("HTTP error fetching page\nURL: %s\nStatus: %d", url, resp.StatusCode))
		return "", &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	var reader io.Reader = resp.Body

	if strings.Contains(resp.Header.Get("Content-Encoding"), "gzip") {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			logger.Error(fmt.Sprintf("Failed to create gzip reader\nURL: %s\nError: %v", url, err))
			return "", fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to read response body\nURL: %s\nError: %v", url, err))
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return string(body), nil
}

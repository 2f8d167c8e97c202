// Package catalog resolves an (artist, album) pair to a canonical official
// release in the MusicBrainz catalog and retrieves its ordered track listing.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL   = "https://musicbrainz.org/ws/2"
	DefaultUserAgent = "missing-music/0.1.0 ( missing-music@example.com )"
	DefaultTimeout   = 10 * time.Second
)

// Config holds the catalog endpoint and the identifying client header.
type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration

	// LiteralQuery embeds artist/album into the search grammar without
	// escaping embedded quotes or backslashes.
	LiteralQuery bool
}

// Client talks to the catalog web service. It holds no per-lookup state and
// is safe for concurrent use.
type Client struct {
	httpClient   *http.Client
	apiURL       string
	userAgent    string
	literalQuery bool
}

// New creates a catalog client from cfg, filling in defaults for empty fields.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return NewWithHTTPClient(cfg, &http.Client{Timeout: timeout})
}

// NewWithHTTPClient creates a catalog client that sends requests through hc.
func NewWithHTTPClient(cfg Config, hc *http.Client) *Client {
	apiURL := strings.TrimRight(cfg.BaseURL, "/")
	if apiURL == "" {
		apiURL = DefaultBaseURL
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	return &Client{
		httpClient:   hc,
		apiURL:       apiURL,
		userAgent:    ua,
		literalQuery: cfg.LiteralQuery,
	}
}

// Release is one catalog entry matching a search query.
type Release struct {
	Title string `json:"title"`
	ID    string `json:"id"`
	Date  *string `json:"date"` // nil when the catalog has no date; "" is still a date
}

// DateString returns the release date, or "" when it is unknown.
func (r Release) DateString() string {
	if r.Date == nil {
		return ""
	}
	return *r.Date
}

// SearchResult wraps one release search response.
type SearchResult struct {
	Releases []Release `json:"releases"`
}

// Track is one entry in a release's track listing.
type Track struct {
	Title string `json:"title"`
}

// DetailedRelease is the detail representation of a release.
type DetailedRelease struct {
	Media []MediaUnit `json:"media"`
}

// MediaUnit is one disc or side. Tracks is nil when the catalog omitted the
// track list.
type MediaUnit struct {
	Tracks []Track `json:"tracks"`
}

// getJSON issues a GET request and decodes the JSON body into v.
func (c *Client) getJSON(ctx context.Context, op, reqURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &FetchError{Kind: KindTransport, Op: op, URL: reqURL, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &FetchError{Kind: KindTransport, Op: op, URL: reqURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &FetchError{
			Kind:       KindDecode,
			Op:         op,
			URL:        reqURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("catalog returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &FetchError{Kind: KindDecode, Op: op, URL: reqURL, StatusCode: resp.StatusCode, Err: err}
	}
	return nil
}

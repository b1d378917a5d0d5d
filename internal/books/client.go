package books

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"m4bforge/internal/config"
	"m4bforge/internal/services"
)

// HTTPDoer describes the HTTP client used by the metadata lookup service.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

const (
	defaultBaseURL     = "https://www.googleapis.com/books/v1"
	defaultMaxResults  = 5
	defaultHTTPTimeout = 15 * time.Second
)

// Client queries the Google Books volumes API for audiobook metadata.
type Client struct {
	baseURL    string
	language   string
	maxResults int
	httpClient HTTPDoer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(client HTTPDoer) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// NewClient builds a lookup client from configuration.
func NewClient(cfg *config.Config, opts ...Option) *Client {
	client := &Client{
		baseURL:    defaultBaseURL,
		maxResults: defaultMaxResults,
	}
	timeout := defaultHTTPTimeout
	if cfg != nil {
		if base := strings.TrimSpace(cfg.Books.BaseURL); base != "" {
			client.baseURL = strings.TrimRight(base, "/")
		}
		client.language = strings.TrimSpace(cfg.Books.Language)
		if cfg.Books.MaxResults > 0 {
			client.maxResults = cfg.Books.MaxResults
		}
		if cfg.Books.TimeoutSeconds > 0 {
			timeout = time.Duration(cfg.Books.TimeoutSeconds) * time.Second
		}
	}
	client.httpClient = &http.Client{Timeout: timeout}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Search returns up to the configured number of candidates ordered by match
// quality for the query. Author narrows the search when non-empty.
func (c *Client) Search(ctx context.Context, title, author string) ([]Metadata, error) {
	title = cleanQuery(title)
	if title == "" {
		return nil, services.Wrap(services.ErrValidation, "lookup", "search", "title is required", nil)
	}

	query := "intitle:" + title
	if author = strings.TrimSpace(author); author != "" {
		query += "+inauthor:" + author
	}
	values := url.Values{}
	values.Set("q", query)
	values.Set("maxResults", strconv.Itoa(c.maxResults))
	values.Set("printType", "books")
	if c.language != "" {
		values.Set("langRestrict", c.language)
	}
	endpoint := c.baseURL + "/volumes?" + values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build lookup request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "lookup", "search", "metadata service unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read lookup response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrTransient, "lookup", "search",
			fmt.Sprintf("metadata service returned %d", resp.StatusCode), nil)
	}

	var payload volumesResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode lookup response: %w", err)
	}

	candidates := make([]Metadata, 0, len(payload.Items))
	for _, item := range payload.Items {
		candidates = append(candidates, item.metadata())
	}
	sortByScore(candidates, title, author)
	return candidates, nil
}

// BestMatch returns the highest-scoring candidate, or nil when the service
// knows nothing about the title.
func (c *Client) BestMatch(ctx context.Context, title, author string) (*Metadata, error) {
	candidates, err := c.Search(ctx, title, author)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	best := candidates[0]
	return &best, nil
}

// cleanQuery trims the search title and drops the word "audiobook", which
// shows up in directory names but pollutes volume queries.
func cleanQuery(title string) string {
	fields := strings.Fields(title)
	kept := fields[:0]
	for _, field := range fields {
		if strings.EqualFold(field, "audiobook") || strings.EqualFold(field, "unabridged") {
			continue
		}
		kept = append(kept, field)
	}
	return strings.Join(kept, " ")
}

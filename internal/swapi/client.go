// Package swapi fetches character records from the swapi.tech Star Wars API and
// enriches each one with its homeworld.
package swapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/rshade/holocron/internal/logging"
)

// DefaultBaseURL is the root discovery endpoint.
const DefaultBaseURL = "https://www.swapi.tech/api"

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "holocron"
	peopleKey      = "people"
	homeworldAttr  = "homeworld"
)

// Lookup errors.
var (
	ErrEmptyPattern = errors.New("name pattern cannot be empty")
	ErrDiscovery    = errors.New("root discovery failed")
	ErrNoResult     = errors.New("no characters matched")
)

// StatusError reports a non-200 response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: status %d", e.URL, e.StatusCode)
}

// Client talks to the swapi.tech API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// NewClient returns a client rooted at baseURL. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchCharacters resolves the people endpoint, searches it for pattern and
// attaches each match's homeworld. Only the requested attributes are copied.
//
// A failed homeworld fetch leaves that character's Homeworld nil and does not
// fail the batch. ErrNoResult is returned when nothing matches.
func (c *Client) FetchCharacters(
	ctx context.Context,
	pattern string,
	characterAttrs, worldAttrs []string,
) ([]Character, error) {
	if pattern == "" {
		return nil, ErrEmptyPattern
	}

	log := logging.ComponentLogger(*logging.FromContext(ctx), "swapi")

	peopleURL, err := c.discover(ctx, peopleKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDiscovery, err)
	}

	searchURL, err := withQuery(peopleURL, "name", pattern)
	if err != nil {
		return nil, err
	}

	var people peopleResponse
	if err := c.getJSON(ctx, searchURL, &people); err != nil {
		return nil, fmt.Errorf("searching people: %w", err)
	}

	log.Debug().
		Str("operation", "search").
		Str("pattern", pattern).
		Int("matches", len(people.Result)).
		Msg("people search complete")

	if len(people.Result) == 0 {
		return nil, ErrNoResult
	}

	characters := make([]Character, 0, len(people.Result))
	for _, p := range people.Result {
		characters = append(characters, c.enrich(ctx, log, p, characterAttrs, worldAttrs))
	}
	return characters, nil
}

// enrich copies the requested attributes and resolves the homeworld link.
func (c *Client) enrich(
	ctx context.Context,
	log zerolog.Logger,
	p resource,
	characterAttrs, worldAttrs []string,
) Character {
	ch := Character{
		ID:         p.UID,
		Attributes: pick(p, characterAttrs),
	}
	delete(ch.Attributes, homeworldAttr)

	link, ok := p.property(homeworldAttr)
	if !ok || link == "" {
		return ch
	}

	var planet planetResponse
	if err := c.getJSON(ctx, link, &planet); err != nil {
		log.Warn().
			Err(err).
			Str("character_id", p.UID).
			Str("homeworld_url", link).
			Msg("homeworld fetch failed, skipping enrichment")
		return ch
	}

	w := NewWorld(planet.Result.UID, pick(planet.Result, worldAttrs))
	ch.Homeworld = &w
	return ch
}

// discover reads the root endpoint and returns the URL registered under key.
func (c *Client) discover(ctx context.Context, key string) (string, error) {
	var root rootResponse
	if err := c.getJSON(ctx, c.baseURL, &root); err != nil {
		return "", err
	}
	u := root.Result[key]
	if u == "" {
		return "", fmt.Errorf("root response has no %q endpoint", key)
	}
	return u, nil
}

// getJSON performs a GET and decodes a 200 response body into out.
func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", rawURL, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s: %w", rawURL, err)
	}
	return nil
}

func pick(r resource, names []string) map[string]string {
	out := make(map[string]string, len(names))
	for _, name := range names {
		if v, ok := r.property(name); ok {
			out[name] = v
		}
	}
	return out
}

func withQuery(rawURL, key, value string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", rawURL, err)
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

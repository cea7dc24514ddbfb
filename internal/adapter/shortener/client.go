// Package shortener is the client of the external URL shortening service.
package shortener

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vadimbarashkov/shortlink/internal/entity"
)

const (
	DefaultEndpoint   = "https://tinyurl.com/api-create.php"
	DefaultQueryParam = "url"
	DefaultPrefix     = "https://tinyurl.com/"

	// maxBodySize bounds the plain-text reply, a short URL never comes close.
	maxBodySize = 4 << 10
)

var (
	// ErrTransport is returned when the request could not be completed.
	ErrTransport = errors.New("transport failure")
	// ErrUnexpectedStatus is returned for a non-2xx reply.
	ErrUnexpectedStatus = errors.New("unexpected status code")
	// ErrInvalidResponse is returned when the reply is not a short URL of the service.
	ErrInvalidResponse = errors.New("invalid response body")
)

// HTTPDoer is satisfied by *http.Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint sets the service endpoint and the query parameter carrying the URL.
func WithEndpoint(endpoint, queryParam string) Option {
	return func(c *Client) {
		c.endpoint = endpoint
		c.queryParam = queryParam
	}
}

// WithPrefix sets the prefix every returned short URL must start with.
func WithPrefix(prefix string) Option {
	return func(c *Client) {
		c.prefix = prefix
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		c.http = doer
	}
}

// WithUserAgent sets the User-Agent header of outbound requests.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithClock replaces the clock used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// Client issues one request per Shorten call. There is no retry.
type Client struct {
	http       HTTPDoer
	endpoint   string
	queryParam string
	prefix     string
	userAgent  string
	now        func() time.Time
}

// New creates a Client for the default service.
func New(opts ...Option) *Client {
	c := &Client{
		http:       http.DefaultClient,
		endpoint:   DefaultEndpoint,
		queryParam: DefaultQueryParam,
		prefix:     DefaultPrefix,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Shorten asks the service to shorten originalURL.
func (c *Client) Shorten(ctx context.Context, originalURL string) (*entity.ShortenResult, error) {
	const op = "adapter.shortener.Client.Shorten"

	reqURL, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse endpoint: %w", op, err)
	}

	q := reqURL.Query()
	q.Set(c.queryParam, originalURL)
	reqURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	req.Header.Set("Accept", "text/plain")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s: %w: %d", op, ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: failed to read body: %w", op, ErrTransport, err)
	}

	shortURL := strings.TrimSpace(string(body))
	if strings.Contains(shortURL, "Error") || !strings.HasPrefix(shortURL, c.prefix) {
		return nil, fmt.Errorf("%s: %w: %q", op, ErrInvalidResponse, shortURL)
	}

	shortCode, err := lastSegment(shortURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidResponse, err)
	}

	result := entity.NewShortenResult(originalURL, shortURL, shortCode, c.now())

	return &result, nil
}

func lastSegment(shortURL string) (string, error) {
	u, err := url.Parse(shortURL)
	if err != nil {
		return "", err
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	code := segments[len(segments)-1]
	if code == "" {
		return "", errors.New("short url has no path")
	}

	return code, nil
}

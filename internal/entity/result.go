// Package entity defines the entities and errors shared across the application.
// It includes the ShortenResult struct, which describes one conversion made by
// the external shortening service, and the history retention limit.
package entity

import (
	"errors"
	"time"
)

// HistoryLimit is the maximum number of results kept in the history.
const HistoryLimit = 10

// TimeLayout is the layout of ShortenResult.CreatedAt. It sorts lexically.
const TimeLayout = time.RFC3339

var (
	// ErrKeyNotFound is returned by storage backends when a key holds no value.
	ErrKeyNotFound = errors.New("key not found")
	// ErrShortenFailed is the user-facing error for any failed shortening attempt.
	ErrShortenFailed = errors.New("failed to shorten URL, please try again")
	// ErrBusy is returned when a shortening request is already in flight.
	ErrBusy = errors.New("a shortening request is already in progress")
)

// ShortenResult represents a URL shortened by the external service.
type ShortenResult struct {
	OriginalURL string `json:"originalUrl"` // OriginalURL is the validated input, kept as submitted.
	ShortURL    string `json:"shortUrl"`    // ShortURL is the absolute URL returned by the service.
	ShortCode   string `json:"shortCode"`   // ShortCode is the trailing path segment of ShortURL.
	ClickCount  int64  `json:"clickCount"`  // ClickCount is always zero, clicks are not tracked.
	CreatedAt   string `json:"createdAt"`   // CreatedAt is the creation time formatted with TimeLayout.
}

// NewShortenResult builds a result created at t.
func NewShortenResult(originalURL, shortURL, shortCode string, t time.Time) ShortenResult {
	return ShortenResult{
		OriginalURL: originalURL,
		ShortURL:    shortURL,
		ShortCode:   shortCode,
		ClickCount:  0,
		CreatedAt:   t.UTC().Format(TimeLayout),
	}
}

// CreatedTime parses CreatedAt.
func (r ShortenResult) CreatedTime() (time.Time, error) {
	return time.Parse(TimeLayout, r.CreatedAt)
}

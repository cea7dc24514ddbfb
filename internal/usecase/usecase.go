package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vadimbarashkov/shortlink/internal/entity"
	"golang.org/x/sync/semaphore"
)

type urlValidator interface {
	URL(raw string) error
}

type urlShortener interface {
	Shorten(ctx context.Context, originalURL string) (*entity.ShortenResult, error)
}

type historyStore interface {
	Add(ctx context.Context, result entity.ShortenResult) error
	Clear(ctx context.Context) error
	Items() []entity.ShortenResult
	Degraded() error
}

// URLUseCase is the application state shared by every delivery surface.
type URLUseCase struct {
	validator urlValidator
	shortener urlShortener
	history   historyStore
	logger    *slog.Logger
	inflight  *semaphore.Weighted
}

func NewURLUseCase(validator urlValidator, shortener urlShortener, history historyStore, logger *slog.Logger) *URLUseCase {
	return &URLUseCase{
		validator: validator,
		shortener: shortener,
		history:   history,
		logger:    logger,
		inflight:  semaphore.NewWeighted(1),
	}
}

// ShortenURL validates rawURL, shortens it and records the result in the
// history. Only one request is in flight at a time, a concurrent call gets
// entity.ErrBusy. Validation errors are returned as *validate.Error, every
// service failure is reported as entity.ErrShortenFailed and leaves the
// history untouched.
func (uc *URLUseCase) ShortenURL(ctx context.Context, rawURL string) (*entity.ShortenResult, error) {
	const op = "usecase.URLUseCase.ShortenURL"

	if err := uc.validator.URL(rawURL); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !uc.inflight.TryAcquire(1) {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrBusy)
	}
	defer uc.inflight.Release(1)

	result, err := uc.shortener.Shorten(ctx, rawURL)
	if err != nil {
		uc.logger.Error("failed to shorten url",
			slog.String("op", op),
			slog.String("url", rawURL),
			slog.Any("err", err),
		)
		return nil, fmt.Errorf("%s: %w", op, entity.ErrShortenFailed)
	}

	if err := uc.history.Add(ctx, *result); err != nil {
		uc.logger.Warn("history not persisted", slog.String("op", op), slog.Any("err", err))
	}

	return result, nil
}

// History returns the stored results, newest first.
func (uc *URLUseCase) History(_ context.Context) []entity.ShortenResult {
	return uc.history.Items()
}

// ClearHistory empties the history. The returned error only reports that the
// empty history could not be persisted; the in-memory history is cleared
// regardless.
func (uc *URLUseCase) ClearHistory(ctx context.Context) error {
	const op = "usecase.URLUseCase.ClearHistory"

	if err := uc.history.Clear(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// PersistenceStatus reports the outcome of the last history load or save.
func (uc *URLUseCase) PersistenceStatus() error {
	return uc.history.Degraded()
}

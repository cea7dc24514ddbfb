package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/vadimbarashkov/shortlink/internal/entity"
	"github.com/vadimbarashkov/shortlink/internal/validate"
	"github.com/vadimbarashkov/shortlink/internal/view"
)

type urlUseCase interface {
	ShortenURL(ctx context.Context, rawURL string) (*entity.ShortenResult, error)
	History(ctx context.Context) []entity.ShortenResult
	ClearHistory(ctx context.Context) error
	PersistenceStatus() error
}

func handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "pong")
}

type urlHandler struct {
	useCase urlUseCase
	now     func() time.Time
}

func newURLHandler(useCase urlUseCase, now func() time.Time) *urlHandler {
	return &urlHandler{
		useCase: useCase,
		now:     now,
	}
}

func (h *urlHandler) shortenURL(w http.ResponseWriter, r *http.Request) {
	var req shortenRequest

	if err := render.DecodeJSON(r.Body, &req); err != nil {
		if errors.Is(err, io.EOF) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, emptyRequestBodyResponse)
			return
		}

		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, invalidRequestBodyResponse)
		return
	}

	result, err := h.useCase.ShortenURL(r.Context(), req.URL)
	if err != nil {
		var vErr *validate.Error

		switch {
		case errors.As(err, &vErr):
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, validationErrorResponse(vErr))
		case errors.Is(err, entity.ErrBusy):
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, busyResponse)
		case errors.Is(err, entity.ErrShortenFailed):
			httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

			render.Status(r, http.StatusBadGateway)
			render.JSON(w, r, shortenFailedResponse)
		default:
			httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, serverErrorResponse)
		}
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toResultResponse(result))
}

func (h *urlHandler) getHistory(w http.ResponseWriter, r *http.Request) {
	items := view.Project(h.useCase.History(r.Context()), h.now())

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toHistoryResponse(items, h.useCase.PersistenceStatus()))
}

func (h *urlHandler) clearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.useCase.ClearHistory(r.Context()); err != nil {
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))
	}

	w.WriteHeader(http.StatusNoContent)
}

package http

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/httplog/v2"
	"github.com/vadimbarashkov/shortlink/internal/entity"
	"github.com/vadimbarashkov/shortlink/internal/validate"
	"github.com/vadimbarashkov/shortlink/internal/view"
)

const (
	toastTTL  = 3 * time.Second
	copiedTTL = 2 * time.Second
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

type toast struct {
	Kind    string
	Message string
}

type pageData struct {
	Input      string
	FieldError string
	Result     *entity.ShortenResult
	History    []view.Item
	Toast      *toast
	Warning    string
	ToastMS    int64
	CopiedMS   int64
}

type pageHandler struct {
	useCase urlUseCase
	now     func() time.Time
}

func newPageHandler(useCase urlUseCase, now func() time.Time) *pageHandler {
	return &pageHandler{
		useCase: useCase,
		now:     now,
	}
}

func (h *pageHandler) data(r *http.Request) pageData {
	data := pageData{
		History:  view.Project(h.useCase.History(r.Context()), h.now()),
		ToastMS:  toastTTL.Milliseconds(),
		CopiedMS: copiedTTL.Milliseconds(),
	}

	if h.useCase.PersistenceStatus() != nil {
		data.Warning = degradedWarning
	}

	return data
}

func (h *pageHandler) render(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	var buf bytes.Buffer

	if err := pageTemplate.ExecuteTemplate(&buf, "index.html", data); err != nil {
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (h *pageHandler) index(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, h.data(r))
}

func (h *pageHandler) submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		data := h.data(r)
		data.Toast = &toast{Kind: "error", Message: invalidRequestBodyResponse.Message}
		h.render(w, r, http.StatusBadRequest, data)
		return
	}

	input := r.PostForm.Get("url")

	result, err := h.useCase.ShortenURL(r.Context(), input)

	// data is built after the call so the history already shows the new result.
	data := h.data(r)
	data.Input = input

	if err != nil {
		var vErr *validate.Error

		status := http.StatusBadGateway
		switch {
		case errors.As(err, &vErr):
			status = http.StatusBadRequest
			data.FieldError = vErr.Message
		case errors.Is(err, entity.ErrBusy):
			status = http.StatusConflict
			data.Toast = &toast{Kind: "error", Message: entity.ErrBusy.Error()}
		default:
			httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))
			data.Toast = &toast{Kind: "error", Message: entity.ErrShortenFailed.Error()}
		}

		h.render(w, r, status, data)
		return
	}

	data.Input = ""
	data.Result = result
	data.Toast = &toast{Kind: "success", Message: "URL shortened"}

	h.render(w, r, http.StatusOK, data)
}

func (h *pageHandler) clear(w http.ResponseWriter, r *http.Request) {
	if err := h.useCase.ClearHistory(r.Context()); err != nil {
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

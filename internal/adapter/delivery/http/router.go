// Package http provides the HTTP delivery layer: the server-rendered page and
// the JSON API, both backed by the same use case instance.
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/vadimbarashkov/shortlink/docs"
)

// RouterOption configures NewRouter.
type RouterOption func(*routerOptions)

type routerOptions struct {
	now func() time.Time
}

// WithClock sets the clock used for relative ages.
func WithClock(now func() time.Time) RouterOption {
	return func(o *routerOptions) {
		o.now = now
	}
}

// NewRouter initializes and returns a new Chi router serving the page, the API and its docs.
func NewRouter(logger *httplog.Logger, urlUseCase urlUseCase, opts ...RouterOption) http.Handler {
	o := routerOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	page := newPageHandler(urlUseCase, o.now)
	r.Get("/", page.index)
	r.Post("/", page.submit)
	r.Post("/history/clear", page.clear)

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/swagger.yml"),
	))

	r.Get("/docs/swagger.yml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		w.Write(docs.Swagger)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"https://*", "http://*"},
			AllowedMethods:   []string{"POST", "GET", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "Accept"},
			AllowCredentials: false,
			MaxAge:           84600,
		}))
		r.Use(recoverJSON)
		r.Use(middleware.AllowContentType("application/json"))

		r.Get("/ping", handlePing)

		h := newURLHandler(urlUseCase, o.now)

		r.Post("/shorten", h.shortenURL)

		r.Route("/history", func(r chi.Router) {
			r.Get("/", h.getHistory)
			r.Delete("/", h.clearHistory)
		})
	})

	return r
}

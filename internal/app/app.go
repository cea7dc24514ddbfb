package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/httplog/v2"
	"github.com/vadimbarashkov/shortlink/internal/adapter/repository/bolt"
	"github.com/vadimbarashkov/shortlink/internal/adapter/repository/file"
	"github.com/vadimbarashkov/shortlink/internal/adapter/repository/memory"
	"github.com/vadimbarashkov/shortlink/internal/adapter/repository/postgres"
	"github.com/vadimbarashkov/shortlink/internal/adapter/shortener"
	"github.com/vadimbarashkov/shortlink/internal/config"
	"github.com/vadimbarashkov/shortlink/internal/history"
	"github.com/vadimbarashkov/shortlink/internal/usecase"
	"github.com/vadimbarashkov/shortlink/internal/validate"
	"github.com/vadimbarashkov/shortlink/migrations"
	"golang.org/x/sync/errgroup"

	myhttp "github.com/vadimbarashkov/shortlink/internal/adapter/delivery/http"
	pgpkg "github.com/vadimbarashkov/shortlink/pkg/postgres"
)

// App holds the wired application state.
type App struct {
	Logger  *httplog.Logger
	UseCase *usecase.URLUseCase
	History *history.Store
	closers []func() error
}

// NewLogger builds the application logger from the log section of cfg.
func NewLogger(cfg *config.Config) *httplog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		level = slog.LevelInfo
	}

	return httplog.NewLogger("shortlink", httplog.Options{
		LogLevel: level,
		JSON:     cfg.Log.JSON,
		Concise:  !cfg.Log.JSON,
		Writer:   os.Stderr,
	})
}

// New wires storage, history, the shortening client and the use case, then
// restores the persisted history. A history that cannot be restored is logged
// and replaced by an empty one.
func New(ctx context.Context, cfg *config.Config, logger *httplog.Logger) (*App, error) {
	const op = "app.New"

	a := &App{Logger: logger}

	storage, err := a.openStorage(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	a.History = history.New(storage, logger.Logger, history.WithKey(cfg.History.Key))
	if err := a.History.Load(ctx); err != nil {
		logger.Warn("history unavailable, continuing with an empty one", slog.Any("err", err))
	}

	client := shortener.New(
		shortener.WithEndpoint(cfg.Shortener.Endpoint, cfg.Shortener.QueryParam),
		shortener.WithPrefix(cfg.Shortener.ShortURLPrefix),
		shortener.WithUserAgent(cfg.Shortener.UserAgent),
		shortener.WithHTTPClient(&http.Client{Timeout: cfg.Shortener.Timeout}),
	)

	a.UseCase = usecase.NewURLUseCase(validate.New(), client, a.History, logger.Logger)

	return a, nil
}

func (a *App) openStorage(ctx context.Context, cfg *config.Config) (history.Storage, error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		return memory.NewKVRepository(), nil

	case config.StorageFile:
		return file.NewKVRepository(cfg.Storage.FileDir)

	case config.StorageBolt:
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.BoltPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create bolt dir: %w", err)
		}

		db, err := bolt.Open(cfg.Storage.BoltPath, cfg.Storage.BoltBucket)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)

		return bolt.NewKVRepository(db, cfg.Storage.BoltBucket), nil

	case config.StoragePostgres:
		if err := pgpkg.RunMigrations(migrations.FS, ".", cfg.Postgres.DSN()); err != nil {
			return nil, err
		}

		db, err := pgpkg.New(
			ctx,
			cfg.Postgres.DSN(),
			pgpkg.WithConnMaxIdleTime(cfg.Postgres.ConnMaxIdleTime),
			pgpkg.WithConnMaxLifetime(cfg.Postgres.ConnMaxLifetime),
			pgpkg.WithPoolSize(cfg.Postgres.MaxIdleConns, cfg.Postgres.MaxOpenConns),
		)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)

		return postgres.NewKVRepository(db), nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// Close releases storage handles.
func (a *App) Close() error {
	var errs []error

	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil

	return errors.Join(errs...)
}

// Run serves the page and the API until ctx is done.
func Run(ctx context.Context, cfg *config.Config) error {
	const op = "app.Run"

	logger := NewLogger(cfg)

	a, err := New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer a.Close()

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        myhttp.NewRouter(logger, a.UseCase),
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server", slog.String("addr", server.Addr), slog.String("env", cfg.Env))

		var err error

		switch cfg.Env {
		case config.EnvProd:
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		default:
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: server error occurred: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		if err := server.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("%s: failed to shutdown server: %w", op, err)
		}

		return nil
	})

	return g.Wait()
}

// Package runtime wires configuration, storage, services, and the HTTP server
// into a runnable process.
package runtime

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	app "github.com/profitlens/profitlens/internal/app"
	"github.com/profitlens/profitlens/internal/app/httpapi"
	"github.com/profitlens/profitlens/internal/app/metrics"
	"github.com/profitlens/profitlens/internal/app/storage/postgres"
	"github.com/profitlens/profitlens/internal/config"
	"github.com/profitlens/profitlens/internal/middleware"
	"github.com/profitlens/profitlens/pkg/logger"
)

// Application wires core dependencies and manages the HTTP server lifecycle.
type Application struct {
	cfg    *config.Config
	log    *logger.Logger
	server *http.Server
	db     *sql.DB
}

// NewApplication constructs a new application instance with default wiring.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.LoggingConfig{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}).WithComponent("server")

	stores, db, err := buildStores(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("configure stores: %w", err)
	}

	application, err := app.New(cfg, stores, app.Options{}, log)
	if err != nil {
		return nil, fmt.Errorf("build application: %w", err)
	}

	bootCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := application.Bootstrap(bootCtx, cfg); err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	handler, err := httpapi.NewHandler(application, cfg.HTTP.AuditLogPath, log.WithComponent("httpapi"))
	if err != nil {
		return nil, fmt.Errorf("build handler: %w", err)
	}

	limiter := middleware.NewRateLimiter(cfg.HTTP.RequestsPerSecond, cfg.HTTP.RateBurst, log.WithComponent("ratelimit"))
	limiter.StartCleanup(10 * time.Minute)
	cors := middleware.NewCORSMiddleware(cfg.HTTP.AllowedOrigins)

	chain := cors.Handler(limiter.Handler(metrics.InstrumentHandler(handler)))

	return &Application{
		cfg: cfg,
		log: log,
		server: &http.Server{
			Addr:              cfg.Server.Addr(),
			Handler:           chain,
			ReadHeaderTimeout: 10 * time.Second,
		},
		db: db,
	}, nil
}

// Log returns the application logger.
func (a *Application) Log() *logger.Logger {
	return a.log
}

// Run starts the HTTP server and blocks until the context is cancelled or the
// server fails.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.log.Infof("HTTP server listening on %s", a.cfg.Server.Addr())
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully shuts down the HTTP server and closes the database.
func (a *Application) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.WithError(err).Warn("error closing database connection")
		}
	}
	return nil
}

// buildStores opens PostgreSQL when a DSN is configured, otherwise falls back
// to the in-memory store for local development.
func buildStores(cfg *config.Config, log *logger.Logger) (app.Stores, *sql.DB, error) {
	if cfg.Database.DSN == "" {
		log.Warn("database.dsn not set; using in-memory store")
		return app.Stores{}, nil, nil
	}

	db, err := openDatabase(cfg.Database)
	if err != nil {
		return app.Stores{}, nil, err
	}

	store := postgres.New(db)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.EnsureSchema(ctx); err != nil {
		db.Close()
		return app.Stores{}, nil, fmt.Errorf("ensure schema: %w", err)
	}

	return app.Stores{Users: store, Records: store}, db, nil
}

func openDatabase(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

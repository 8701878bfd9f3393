// Package app composes the domain services into a running application. It
// holds no business logic of its own: wiring and lifecycle only.
package app

import (
	"context"
	"net/http"

	"github.com/profitlens/profitlens/internal/app/services/advisory"
	"github.com/profitlens/profitlens/internal/app/services/analysis"
	"github.com/profitlens/profitlens/internal/app/services/auth"
	"github.com/profitlens/profitlens/internal/app/storage"
	"github.com/profitlens/profitlens/internal/app/storage/memory"
	"github.com/profitlens/profitlens/internal/config"
	"github.com/profitlens/profitlens/pkg/logger"
)

// Stores encapsulates persistence dependencies. Nil stores default to the
// in-memory implementation.
type Stores struct {
	Users   storage.UserStore
	Records storage.RecordStore
}

// Options carries optional overrides for New.
type Options struct {
	// Generator replaces the default HTTP advisory client; tests inject
	// fakes here.
	Generator advisory.Generator
}

// Application ties the services together.
type Application struct {
	log *logger.Logger

	Auth     *auth.Service
	Advisory *advisory.Service
	Analysis *analysis.Service
}

// New builds a fully initialised application with the provided stores.
func New(cfg *config.Config, stores Stores, opts Options, log *logger.Logger) (*Application, error) {
	if log == nil {
		log = logger.NewDefault("app")
	}

	mem := memory.New()
	if stores.Users == nil {
		stores.Users = mem
	}
	if stores.Records == nil {
		stores.Records = mem
	}

	authService := auth.New(stores.Users, cfg.Auth.JWTSecret, log.WithComponent("auth"))

	generator := opts.Generator
	if generator == nil {
		httpClient := &http.Client{Timeout: cfg.Advisory.Timeout()}
		client, err := advisory.NewClient(httpClient, cfg.Advisory.Endpoint, cfg.Advisory.APIKey, cfg.Advisory.Model, log.WithComponent("advisory-client"))
		if err != nil {
			log.WithError(err).Warn("advisory client not configured; responses will use fallback text")
		} else {
			generator = client
		}
	}

	advisoryService := advisory.New(generator, cfg.Advisory.MaxTokens, cfg.Advisory.Timeout(), log.WithComponent("advisory"))
	analysisService := analysis.New(stores.Records, advisoryService, log.WithComponent("analysis"))

	return &Application{
		log:      log,
		Auth:     authService,
		Advisory: advisoryService,
		Analysis: analysisService,
	}, nil
}

// Bootstrap performs idempotent startup work: the default account.
func (a *Application) Bootstrap(ctx context.Context, cfg *config.Config) error {
	return a.Auth.Bootstrap(ctx, cfg.Auth.BootstrapUsername, cfg.Auth.BootstrapPassword)
}

// Package app wires configuration, logging, the result cache, the upstream
// clients and the HTTP stack into a runnable service.
package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bioatlas/genesummary/internal/app/cache"
	"github.com/bioatlas/genesummary/internal/app/httpapi"
	"github.com/bioatlas/genesummary/internal/app/metrics"
	"github.com/bioatlas/genesummary/internal/app/services/signor"
	"github.com/bioatlas/genesummary/internal/app/services/uniprot"
	"github.com/bioatlas/genesummary/internal/config"
	"github.com/bioatlas/genesummary/internal/middleware"
	"github.com/bioatlas/genesummary/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// Application ties the service components together and manages their
// lifecycle.
type Application struct {
	cfg    *config.Config
	log    *logger.Logger
	cache  *cache.Cache
	server *http.Server

	Genes        *uniprot.Client
	Interactions *signor.Client
}

// New builds a fully initialised application from the provided configuration.
func New(cfg *config.Config, log *logger.Logger) (*Application, error) {
	if log == nil {
		log = logger.New(logger.LoggingConfig{
			Level:      cfg.Logging.Level,
			Format:     cfg.Logging.Format,
			Output:     cfg.Logging.Output,
			FilePrefix: cfg.Logging.FilePrefix,
		})
	}

	resultCache := cache.New(cfg.Cache.RedisURL, log.WithField("component", "cache"))

	uniprotClient, err := uniprot.New(uniprot.Config{
		BaseURL:    cfg.UniProt.BaseURL,
		Timeout:    cfg.UniProt.Timeout(),
		Attempts:   cfg.UniProt.Retries,
		OrganismID: cfg.UniProt.OrganismID,
	}, nil, log.WithField("component", "uniprot"))
	if err != nil {
		return nil, fmt.Errorf("configure uniprot client: %w", err)
	}

	signorClient, err := signor.New(signor.Config{
		BaseURL:    cfg.Signor.BaseURL,
		Timeout:    cfg.Signor.Timeout(),
		OrganismID: cfg.UniProt.OrganismID,
	}, nil, log.WithField("component", "signor"))
	if err != nil {
		return nil, fmt.Errorf("configure signor client: %w", err)
	}

	handler := httpapi.NewHandler(httpapi.Config{
		AppName:     cfg.App.Name,
		AppVersion:  cfg.App.Version,
		FrontendDir: cfg.Server.FrontendDir,
		CacheTTL:    cfg.Cache.TTL(),
	}, uniprotClient, signorClient, resultCache, log.WithField("component", "httpapi"))

	limiter := middleware.NewRateLimiter(cfg.Limits.RequestsPerMinute, cfg.Limits.Burst, log.WithField("component", "ratelimit"))
	limiter.StartCleanup(10 * time.Minute)

	cors := middleware.NewCORSMiddleware(splitOrigins(cfg.Limits.CORSOrigins))

	var chain http.Handler = handler.Routes()
	chain = limiter.Handler(chain)
	chain = cors.Handler(chain)
	chain = middleware.RequestLogger(log.WithField("component", "http"))(chain)
	chain = middleware.RequestID(chain)
	chain = metrics.InstrumentHandler(chain)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Application{
		cfg:          cfg,
		log:          log,
		cache:        resultCache,
		server:       server,
		Genes:        uniprotClient,
		Interactions: signorClient,
	}, nil
}

// Handler exposes the fully wrapped HTTP handler.
func (a *Application) Handler() http.Handler {
	return a.server.Handler
}

// Addr returns the listen address of the HTTP server.
func (a *Application) Addr() string {
	return a.server.Addr
}

// Run starts the HTTP server and blocks until the context is cancelled or
// the server fails.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.log.Infof("%s v%s listening on %s", a.cfg.App.Name, a.cfg.App.Version, a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Shutdown drains in-flight requests and releases the cache connection.
func (a *Application) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	a.log.Infof("%s shutting down", a.cfg.App.Name)
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	if err := a.cache.Close(); err != nil {
		a.log.WithError(err).Warn("close cache")
	}
	return nil
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

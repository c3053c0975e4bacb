package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/foxzi/campaignmock/internal/api"
	"github.com/foxzi/campaignmock/internal/campaign"
	"github.com/foxzi/campaignmock/internal/config"
	"github.com/foxzi/campaignmock/internal/ipfilter"
	"github.com/foxzi/campaignmock/internal/metrics"
	"github.com/foxzi/campaignmock/internal/openapi"
)

// shutdownTimeout bounds graceful shutdown of the HTTP servers
const shutdownTimeout = 30 * time.Second

// App is the main application
type App struct {
	config        *config.Config
	corpus        *campaign.Corpus
	apiServer     *api.Server
	metricsServer *metrics.Server
	logger        *slog.Logger
	logCloser     io.Closer
}

// New creates a new application. The corpus is generated here, before any
// request can be served.
func New(cfg *config.Config) (*App, error) {
	// Setup logger
	logger, logCloser := setupLogger(cfg.Logging)

	start := time.Now()
	corpus, err := campaign.Build(cfg.Generator.Seed, cfg.Generator.ReferenceDate, cfg.Generator.Count)
	if err != nil {
		return nil, fmt.Errorf("failed to build corpus: %w", err)
	}
	logger.Info("campaign corpus generated",
		"campaigns", corpus.Len(),
		"seed", cfg.Generator.Seed,
		"reference_date", cfg.Generator.ReferenceDate,
		"duration", time.Since(start),
	)

	doc, err := openapi.Load(cfg.OpenAPI.SpecPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi document: %w", err)
	}

	a := &App{
		config:    cfg,
		corpus:    corpus,
		logger:    logger,
		logCloser: logCloser,
	}

	if cfg.Metrics.Enabled {
		filter, err := ipfilter.New(cfg.Metrics.AllowedIPs, logger.With("component", "metrics"))
		if err != nil {
			return nil, fmt.Errorf("failed to parse metrics allowed_ips: %w", err)
		}

		m := metrics.New()
		metrics.SetGlobal(m)
		metrics.SetCorpusSize(corpus.Len())
		a.metricsServer = metrics.NewServer(m, cfg.Metrics.ListenAddr, cfg.Metrics.Path, filter,
			logger.With("component", "metrics"))
	}

	a.apiServer = api.NewServer(corpus, doc, &cfg.API, logger.With("component", "api"))

	return a, nil
}

// Corpus returns the generated campaigns
func (a *App) Corpus() *campaign.Corpus {
	return a.corpus
}

// Run starts all servers and blocks until ctx is cancelled, a termination
// signal arrives or a server fails.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("starting campaignmock",
		"api_addr", a.config.API.ListenAddr,
		"metrics", a.metricsServer != nil,
	)

	// Create context that listens for signals
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return serve("api server", a.apiServer.ListenAndServe)
	})

	if a.metricsServer != nil {
		g.Go(func() error {
			return serve("metrics server", a.metricsServer.ListenAndServe)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() != nil {
			a.logger.Info("shutdown signal received")
		}
		return a.Shutdown(context.Background())
	})

	return g.Wait()
}

// serve runs a blocking ListenAndServe and treats a graceful close as success
func serve(name string, listen func() error) error {
	if err := listen(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Shutdown gracefully shuts down all components
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down")

	// Create timeout context
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := a.apiServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("api server shutdown error", "error", err)
	}

	if a.metricsServer != nil {
		if err := a.metricsServer.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("metrics server shutdown error", "error", err)
		}
		metrics.SetGlobal(nil)
	}

	a.logger.Info("shutdown complete")

	if a.logCloser != nil {
		if err := a.logCloser.Close(); err != nil {
			return fmt.Errorf("failed to close log file: %w", err)
		}
	}
	return nil
}

// setupLogger creates a logger based on configuration. When a log file is
// configured the returned closer releases it.
func setupLogger(cfg config.LoggingConfig) (*slog.Logger, io.Closer) {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var out io.Writer = os.Stdout
	var closer io.Closer
	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		}
		out, closer = rotator, rotator
	}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return slog.New(handler), closer
}

// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/eunoia-app/eunoia/internal/ai"
	"github.com/eunoia-app/eunoia/internal/api"
	"github.com/eunoia-app/eunoia/internal/index"
	"github.com/eunoia-app/eunoia/internal/mcpserver"
	"github.com/eunoia-app/eunoia/internal/service"
	"github.com/eunoia-app/eunoia/internal/sse"
	"github.com/eunoia-app/eunoia/internal/storage"
	"github.com/eunoia-app/eunoia/internal/store"
)

// buildStore assembles the storage provider and record store for the
// configured data mode.
func buildStore(cfg *Config, logger *slog.Logger) (*store.Store, error) {
	dir := cfg.Data.ActiveDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	fs, err := storage.NewFS(dir)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	var provider storage.Provider = fs
	if cfg.Data.Mode == DataModeSeed {
		logger.Info("Seed data mode: mutations are rejected", slog.String("dir", dir))
		provider = storage.NewReadOnly(fs)
	}

	return store.New(provider, logger), nil
}

// buildFlows selects the generative backend for the AI flows. With the
// provider disabled every flow answers from its local fallback.
func buildFlows(ctx context.Context, cfg *Config, logger *slog.Logger) (*ai.Flows, error) {
	if cfg.AI.Provider != AIProviderGemini {
		return ai.NewFlows(nil, logger), nil
	}
	gen, err := ai.NewGemini(ctx, cfg.AI.APIKey, cfg.AI.Model)
	if err != nil {
		return nil, fmt.Errorf("init gemini: %w", err)
	}
	logger.Info("Gemini flows enabled", slog.String("model", cfg.AI.Model))
	return ai.NewFlows(gen, logger), nil
}

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("data_dir", cfg.Data.ActiveDir()),
		slog.String("data_mode", cfg.Data.Mode),
		slog.String("index_path", cfg.Index.Path),
		slog.String("ai_provider", cfg.AI.Provider),
		slog.String("log_level", cfg.App.LogLevel.String()))

	st, err := buildStore(cfg, logger)
	if err != nil {
		return err
	}

	// Initialize SQLite search index.
	db, err := index.Open(cfg.Index.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	// Run initial sync.
	if err := index.Sync(db, st, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	flows, err := buildFlows(ctx, cfg, logger)
	if err != nil {
		return err
	}

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)

	// Build the service layer and API router.
	svc := service.New(st, db, flows, broker, logger)
	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the data directory so edits made outside the API (sync tools,
	// manual edits) reach the index and connected clients.
	g.Go(func() error {
		return index.Watch(gCtx, db, st, cfg.Data.ActiveDir(), logger, func(collections []string) {
			for _, col := range collections {
				broker.PublishRecordEvent("updated", col, "")
			}
		})
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		broker.Close()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP starts the MCP server on stdio. Logs go to stderr so stdout stays
// clean for the protocol stream.
func RunMCP(ctx context.Context, cfg *Config) error {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	st, err := buildStore(cfg, logger)
	if err != nil {
		return err
	}

	db, err := index.Open(cfg.Index.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	if err := index.Sync(db, st, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	flows, err := buildFlows(ctx, cfg, logger)
	if err != nil {
		return err
	}

	svc := service.New(st, db, flows, nil, logger)
	return mcpserver.New(svc, logger).ServeStdio()
}

package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	blogHandlers "Blogroll/internal/api/handlers/blog"
	"Blogroll/internal/api/middleware"
	"Blogroll/internal/api/routes"
	"Blogroll/internal/api/sessions"
	"Blogroll/internal/config"
	"Blogroll/internal/core/blog"
	"Blogroll/internal/db/migrations"
	postgresRepo "Blogroll/internal/db/postgres"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(nil)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := db.PingContext(ctx); err != nil {
		return err
	}
	logger.Info("connected to database")

	if err := migrations.Up(db); err != nil {
		return err
	}
	logger.Info("migrations completed successfully")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	registry, err := sessions.NewRegistry(ctx, cfg.MaxSessions, sessions.Services{
		Entries:        postgresRepo.NewEntryRepository(db),
		Comments:       postgresRepo.NewBlogCommentRepository(db),
		Voting:         postgresRepo.NewSettingsRepository(db),
		Permissions:    postgresRepo.NewPermissionRepository(db),
		Metrics:        blog.NewMetrics(reg),
		Locale:         cfg.Locale,
		RequestTimeout: cfg.RequestTimeout,
	}, logger, reg)
	if err != nil {
		return err
	}
	defer registry.Close()

	sessionMiddleware, err := middleware.NewSessionMiddleware(cfg.CookieSecret, registry, logger)
	if err != nil {
		return err
	}

	r := chi.NewRouter()

	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	defer rateLimiter.Stop()

	r.Group(func(r chi.Router) {
		r.Use(rateLimiter.Middleware)
		routes.RegisterBlogRoutes(r, blogHandlers.NewHandler(sessionMiddleware, logger), sessionMiddleware)
	})

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("blog server starting", "port", cfg.Port, "locale", cfg.Locale)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

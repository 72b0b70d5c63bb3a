package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/bryanwahyu/company-insight/internal/application"
	appanalysis "github.com/bryanwahyu/company-insight/internal/application/analysis"
	appdashboard "github.com/bryanwahyu/company-insight/internal/application/dashboard"
	"github.com/bryanwahyu/company-insight/internal/config"
	domain "github.com/bryanwahyu/company-insight/internal/domain/analysis"
	"github.com/bryanwahyu/company-insight/internal/infra/ai/gemini"
	"github.com/bryanwahyu/company-insight/internal/infra/ai/openai"
	mysqlp "github.com/bryanwahyu/company-insight/internal/infra/db/mysql"
	"github.com/bryanwahyu/company-insight/internal/infra/db/postgres"
	"github.com/bryanwahyu/company-insight/internal/infra/httpserver"
	minioStore "github.com/bryanwahyu/company-insight/internal/infra/storage"
	"github.com/bryanwahyu/company-insight/internal/logger"
	"github.com/bryanwahyu/company-insight/internal/middleware"
)

type generator interface {
	domain.Generator
	Model() string
}

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx := context.Background()

	var gen generator
	switch cfg.LLM.Provider {
	case "openai":
		gen = openai.NewClient(cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.BaseURL)
	default:
		gen = gemini.NewClient(cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.BaseURL)
	}
	if cfg.LLM.APIKey == "" {
		log.Warn("no LLM API key configured, analyses will fail until one is set")
	}
	log.Info("llm provider", zap.String("provider", cfg.LLM.Provider), zap.String("model", gen.Model()))

	checkers := map[string]middleware.HealthChecker{}
	history := &appanalysis.History{Clock: application.SystemClock{}}

	db, repo, err := openHistory(ctx, cfg)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		history.Repo = repo
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
		log.Info("analysis history enabled", zap.String("driver", cfg.Database.Driver))
	}

	if cfg.Minio.Enabled {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			return fmt.Errorf("minio init: %w", err)
		}
		history.Archive = store
		log.Info("analysis archive enabled", zap.String("bucket", cfg.Minio.BucketName))
	}

	var recorder domain.Recorder
	if history.Repo != nil || history.Archive != nil {
		recorder = history
	}

	metrics := middleware.NewMetrics()
	sessions := appanalysis.NewRegistry(cfg.Session.TTL, func(id string) *appanalysis.Orchestrator {
		return appanalysis.New(gen,
			appanalysis.WithLogger(log.Named("analysis")),
			appanalysis.WithTimeout(cfg.LLM.Timeout),
			appanalysis.WithRecorder(recorder),
			appanalysis.WithObserver(metrics.ObserveAnalysis),
			appanalysis.WithSession(id, gen.Model()),
		)
	}, log.Named("sessions"))
	defer sessions.Close()

	limiter := middleware.NewRateLimiter(cfg.Server.RateLimit.RPS, cfg.Server.RateLimit.Burst, 10*time.Minute)
	defer limiter.Close()

	var apiHistory *appanalysis.History
	if history.Repo != nil {
		apiHistory = history
	}

	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	mux.Use(middleware.Logging(log.Named("http")))
	mux.Use(metrics.Middleware)
	mux.Use(middleware.APIKeyAuth(cfg.Server.APIKeys))
	if cfg.Server.RateLimit.RPS > 0 {
		mux.Use(middleware.RateLimitMiddleware(limiter))
	}

	mux.Get("/health", middleware.HealthHandler(checkers))
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/live", middleware.LivenessHandler)
	mux.Handle("/metrics", metrics.Handler())
	mux.Mount("/", httpserver.NewRouter(sessions, apiHistory, appdashboard.NewService(), log.Named("api")))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.LLM.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case <-stop:
	case err := <-errCh:
		return err
	}
	log.Info("shutting down server")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Warn("shutdown error", zap.Error(err))
	}
	return nil
}

// openHistory connects the configured database. It returns a nil db when
// history is disabled.
func openHistory(ctx context.Context, cfg *config.Config) (*sql.DB, domain.Repository, error) {
	switch cfg.Database.Driver {
	case "postgres":
		db, err := postgres.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, nil, fmt.Errorf("postgres connect: %w", err)
		}
		if cfg.Database.Migrate {
			if err := postgres.EnsureSchema(ctx, db); err != nil {
				db.Close()
				return nil, nil, err
			}
		}
		return db, postgres.NewAnalysisRepository(db), nil
	case "mysql":
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, nil, fmt.Errorf("mysql connect: %w", err)
		}
		if cfg.Database.Migrate {
			if err := mysqlp.EnsureSchema(ctx, db); err != nil {
				db.Close()
				return nil, nil, err
			}
		}
		return db, mysqlp.NewAnalysisRepository(db), nil
	default:
		return nil, nil, nil
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/zombar/wordwise/internal/analyzer"
	"github.com/zombar/wordwise/internal/api"
	"github.com/zombar/wordwise/internal/database"
	"github.com/zombar/wordwise/internal/ollama"
	"github.com/zombar/wordwise/internal/queue"
	"github.com/zombar/wordwise/pkg/logging"
	"github.com/zombar/wordwise/pkg/metrics"
	"github.com/zombar/wordwise/pkg/tracing"
)

const serviceName = "wordwise"

// config holds the service settings. Every flag defaults to an environment
// variable.
type config struct {
	Port              string
	DBPath            string
	OllamaURL         string
	OllamaModel       string
	UseOllama         bool
	RedisAddr         string
	RunWorker         bool
	WorkerConcurrency int
}

// loadConfig parses args with defaults taken from getenv.
func loadConfig(args []string, getenv func(string) string) (config, error) {
	env := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}

	concurrency, err := strconv.Atoi(env("WORKER_CONCURRENCY", "10"))
	if err != nil {
		return config{}, fmt.Errorf("invalid WORKER_CONCURRENCY: %w", err)
	}

	var cfg config
	fs := flag.NewFlagSet(serviceName, flag.ContinueOnError)
	fs.StringVar(&cfg.Port, "port", env("PORT", "8080"), "Server port (env: PORT)")
	fs.StringVar(&cfg.DBPath, "db", env("DB_PATH", "wordwise.db"), "SQLite path or PostgreSQL DSN (env: DB_PATH)")
	fs.StringVar(&cfg.OllamaURL, "ollama-url", env("OLLAMA_URL", ollama.DefaultURL), "Ollama API URL (env: OLLAMA_URL)")
	fs.StringVar(&cfg.OllamaModel, "ollama-model", env("OLLAMA_MODEL", ollama.DefaultModel), "Ollama model to use (env: OLLAMA_MODEL)")
	fs.BoolVar(&cfg.UseOllama, "use-ollama", envBool(getenv("USE_OLLAMA"), true), "Enable Ollama for AI feedback (env: USE_OLLAMA)")
	fs.StringVar(&cfg.RedisAddr, "redis-addr", env("REDIS_ADDR", ""), "Redis address for the analysis queue, empty disables it (env: REDIS_ADDR)")
	fs.BoolVar(&cfg.RunWorker, "worker", envBool(getenv("RUN_WORKER"), true), "Process queued analyses in this process (env: RUN_WORKER)")
	fs.IntVar(&cfg.WorkerConcurrency, "worker-concurrency", concurrency, "Concurrent queue tasks (env: WORKER_CONCURRENCY)")

	if err := fs.Parse(args); err != nil {
		return config{}, err
	}
	if cfg.WorkerConcurrency < 1 {
		return config{}, fmt.Errorf("worker concurrency must be positive, got %d", cfg.WorkerConcurrency)
	}
	return cfg, nil
}

// envBool parses a boolean environment value, returning def when unset.
func envBool(value string, def bool) bool {
	if value == "" {
		return def
	}
	return value == "true" || value == "1" || value == "yes"
}

func main() {
	// Setup structured logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := loadConfig(os.Args[1:], os.Getenv)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("wordwise service failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config, logger *slog.Logger) error {
	logger.Info("wordwise service initializing", "version", "1.0.0")

	// Initialize tracing
	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Error("error shutting down tracer", "error", err)
			}
		}()
		logger.Info("tracing initialized successfully")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := database.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database %s: %w", cfg.DBPath, err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize metrics
	dbMetrics := metrics.NewDatabaseMetrics(serviceName, prometheus.DefaultRegisterer)
	go dbMetrics.Poll(ctx, db.Conn(), 15*time.Second)
	businessMetrics := metrics.NewBusinessMetrics(serviceName, prometheus.DefaultRegisterer)
	logger.Info("metrics initialized")

	textAnalyzer := newAnalyzer(cfg, logger)

	// Initialize queue client and worker
	var queueClient api.QueueClient
	if cfg.RedisAddr != "" {
		client := queue.NewClient(queue.ClientConfig{RedisAddr: cfg.RedisAddr})
		defer client.Close()
		queueClient = client

		if cfg.RunWorker {
			worker := queue.NewWorker(
				queue.WorkerConfig{RedisAddr: cfg.RedisAddr, Concurrency: cfg.WorkerConcurrency},
				db, textAnalyzer, client, businessMetrics,
			)
			if err := worker.Start(); err != nil {
				return err
			}
			defer worker.Shutdown()
		}
	} else {
		logger.Info("REDIS_ADDR not set, queued analyses disabled")
	}

	// Initialize API handler
	apiHandler := api.NewHandler(db, textAnalyzer, queueClient)

	// Middleware chain: tracing -> HTTP logging -> handlers, so request logs
	// carry the server span's trace ID
	handler := tracing.HTTPMiddleware(serviceName)(
		logging.HTTPLoggingMiddleware(logger)(apiHandler),
	)

	// Create server with extended timeouts for AI processing
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: ollama.DefaultTimeout + time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("wordwise service starting",
			"port", cfg.Port,
			"database", db.Dialect(),
			"ollama_enabled", textAnalyzer.AIEnabled(),
			"ollama_url", cfg.OllamaURL,
			"ollama_model", cfg.OllamaModel,
			"queue_enabled", queueClient != nil,
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful shutdown
	select {
	case err := <-errCh:
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// newAnalyzer builds the feedback analyzer, falling back to engine-only
// feedback when Ollama is disabled or misconfigured.
func newAnalyzer(cfg config, logger *slog.Logger) *analyzer.Analyzer {
	if !cfg.UseOllama {
		logger.Info("Ollama disabled, using engine-only feedback")
		return analyzer.New()
	}

	ollamaClient, err := ollama.New(cfg.OllamaURL, cfg.OllamaModel)
	if err != nil {
		logger.Warn("failed to initialize Ollama client, falling back to engine-only feedback",
			"error", err,
			"ollama_url", cfg.OllamaURL,
			"ollama_model", cfg.OllamaModel,
		)
		return analyzer.New()
	}

	logger.Info("Ollama client initialized", "model", cfg.OllamaModel, "url", cfg.OllamaURL)
	return analyzer.NewWithOllama(ollamaClient)
}

// Command civicagenda runs the ingestion-and-processing core: the
// scheduler's sync and processing loops, the Retention/Maintenance
// Sweeper, and a thin read-only status/health HTTP surface.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/civicsync/ingest/pkg/adapter"
	"github.com/civicsync/ingest/pkg/adapter/vendors"
	"github.com/civicsync/ingest/pkg/cleanup"
	"github.com/civicsync/ingest/pkg/config"
	"github.com/civicsync/ingest/pkg/database"
	"github.com/civicsync/ingest/pkg/extract"
	"github.com/civicsync/ingest/pkg/fetcher"
	"github.com/civicsync/ingest/pkg/llmorch"
	"github.com/civicsync/ingest/pkg/llmprovider"
	"github.com/civicsync/ingest/pkg/metrics"
	"github.com/civicsync/ingest/pkg/packetfetch"
	"github.com/civicsync/ingest/pkg/processor"
	"github.com/civicsync/ingest/pkg/queue"
	"github.com/civicsync/ingest/pkg/ratelimit"
	"github.com/civicsync/ingest/pkg/repo"
	"github.com/civicsync/ingest/pkg/scheduler"
	"github.com/civicsync/ingest/pkg/topics"
	"github.com/civicsync/ingest/pkg/version"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	configDir := flag.String("config-dir",
		getEnv("CONFIG_DIR", "./deploy/config"),
		"Path to configuration directory")
	flag.Parse()

	envPath := filepath.Join(*configDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		log.Printf("warning: could not load %s: %v", envPath, err)
	} else {
		log.Printf("loaded environment from %s", envPath)
	}

	httpPort := getEnv("HTTP_PORT", "8080")
	gin.SetMode(getEnv("GIN_MODE", "release"))

	log.Printf("starting %s", version.Full())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Initialize(ctx, *configDir)
	if err != nil {
		log.Fatalf("failed to initialize configuration: %v", err)
	}

	dbConfig, err := database.LoadConfigFromEnv()
	if err != nil {
		log.Fatalf("failed to load database config: %v", err)
	}
	dbClient, err := database.NewClient(ctx, dbConfig)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			log.Printf("error closing database client: %v", err)
		}
	}()
	log.Println("connected to PostgreSQL, schema migrated")

	sink := metrics.NoOp{}
	store := repo.New(dbClient.Client)

	registry := adapter.NewRegistry(vendors.NewAll()...)
	limiter := ratelimit.NewVendorLimiter()
	f := fetcher.New(registry, limiter, store, sink, cfg.Scheduler.HistoricalCutoff, cfg.Scheduler.FutureCutoff)

	normalizer := topics.New(getEnv("UNKNOWN_TOPICS_LOG", ""))
	defer func() { _ = normalizer.Close() }()

	llmClient := llmprovider.New(
		cfg.LLM.BaseURL,
		os.Getenv(cfg.LLM.APIKeyEnv),
		cfg.LLM.CallTimeout,
	)
	orchestrator := llmorch.New(llmClient, cfg.LLM, normalizer, sink)

	proc := processor.New(store, packetfetch.New(), extract.NewPDFExtractor(), orchestrator, store)

	pool := queue.NewWorkerPool(dbClient.Client, cfg.Queue, proc)
	sched := scheduler.New(store, f, pool, cfg.Scheduler)
	sched.Start(ctx)
	defer sched.Stop()

	sweeper := cleanup.NewService(cfg.Retention, store, slog.Default())
	sweeper.Start(ctx)
	defer sweeper.Stop()

	log.Println("scheduler and retention sweeper started")

	router := gin.Default()
	router.GET("/health", healthHandler(dbClient, pool))
	router.GET("/status", statusHandler(pool))

	srv := &http.Server{Addr: ":" + httpPort, Handler: router}
	go func() {
		log.Printf("HTTP status surface listening on :%s", httpPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("status server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("error shutting down HTTP server: %v", err)
	}
}

func healthHandler(dbClient *database.Client, pool *queue.WorkerPool) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqCtx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		dbHealth, err := database.Health(reqCtx, dbClient.DB())
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": dbHealth,
				"error":    err.Error(),
			})
			return
		}

		poolHealth := pool.Health()
		status := http.StatusOK
		if !poolHealth.IsHealthy {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"status":   "healthy",
			"database": dbHealth,
			"queue":    poolHealth,
			"version":  version.Full(),
		})
	}
}

func statusHandler(pool *queue.WorkerPool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, pool.Health())
	}
}

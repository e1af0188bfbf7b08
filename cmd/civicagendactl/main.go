// Command civicagendactl is the operator CLI: one-shot invocations of
// the scheduler's sync/process passes, plus inspection commands.
// Exit codes: 0 success, 1 input error, 2 partial failure, 130 interrupted.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/civicsync/ingest/pkg/adapter"
	"github.com/civicsync/ingest/pkg/adapter/vendors"
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
	"github.com/civicsync/ingest/pkg/topics"
)

const (
	exitOK              = 0
	exitInputError      = 1
	exitPartialFailure  = 2
	exitInterrupted     = 130
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	os.Exit(run())
}

func run() int {
	configDir := flag.String("config-dir", getEnv("CONFIG_DIR", "./deploy/config"), "Path to configuration directory")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: civicagendactl <sync-cities|process-cities|sync-and-process-cities|preview-queue|extract-text|status> [args...]")
		return exitInputError
	}

	if envPath := filepath.Join(*configDir, ".env"); true {
		if err := godotenv.Load(envPath); err != nil {
			log.Printf("warning: could not load %s: %v", envPath, err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Initialize(ctx, *configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize configuration: %v\n", err)
		return exitInputError
	}

	dbConfig, err := database.LoadConfigFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load database config: %v\n", err)
		return exitInputError
	}
	dbClient, err := database.NewClient(ctx, dbConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to database: %v\n", err)
		return exitInputError
	}
	defer func() { _ = dbClient.Close() }()

	store := repo.New(dbClient.Client)

	cmd, rest := args[0], args[1:]
	var code int
	switch cmd {
	case "sync-cities":
		code = runSyncCities(ctx, store, cfg, rest)
	case "process-cities":
		code = runProcessCities(ctx, dbClient, store, cfg, rest)
	case "sync-and-process-cities":
		code = runSyncCities(ctx, store, cfg, rest)
		if code == exitOK {
			code = runProcessCities(ctx, dbClient, store, cfg, rest)
		}
	case "preview-queue":
		code = runPreviewQueue(ctx, dbClient)
	case "extract-text":
		code = runExtractText(ctx, store, rest)
	case "status":
		code = runStatus(ctx, store)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		code = exitInputError
	}

	if ctx.Err() != nil {
		return exitInterrupted
	}
	return code
}

// resolveBananas expands "@file" to one banana per line, else treats the
// argument as a comma-separated list.
func resolveBananas(arg string) ([]string, error) {
	if arg == "" {
		return nil, nil
	}
	if strings.HasPrefix(arg, "@") {
		f, err := os.Open(arg[1:])
		if err != nil {
			return nil, fmt.Errorf("read city list file: %w", err)
		}
		defer f.Close()
		var out []string
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line != "" {
				out = append(out, line)
			}
		}
		return out, scanner.Err()
	}
	return strings.Split(arg, ","), nil
}

func buildFetcher(store *repo.Repo, cfg *config.Config) *fetcher.Fetcher {
	registry := adapter.NewRegistry(vendors.NewAll()...)
	limiter := ratelimit.NewVendorLimiter()
	return fetcher.New(registry, limiter, store, metrics.NoOp{}, cfg.Scheduler.HistoricalCutoff, cfg.Scheduler.FutureCutoff)
}

func runSyncCities(ctx context.Context, store *repo.Repo, cfg *config.Config, args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "sync-cities requires <bananas|@file>")
		return exitInputError
	}
	bananas, err := resolveBananas(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitInputError
	}

	active, err := store.ActiveCities(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to list active cities: %v\n", err)
		return exitInputError
	}
	wanted := make(map[string]bool, len(bananas))
	for _, b := range bananas {
		wanted[b] = true
	}

	f := buildFetcher(store, cfg)
	failures := 0
	for _, city := range active {
		if !wanted[city.Banana] {
			continue
		}
		if err := f.SyncCity(ctx, city); err != nil {
			log.Printf("sync failed for %s: %v", city.Banana, err)
			failures++
		} else {
			log.Printf("synced %s", city.Banana)
		}
	}
	if failures > 0 {
		return exitPartialFailure
	}
	return exitOK
}

func runProcessCities(ctx context.Context, dbClient *database.Client, store *repo.Repo, cfg *config.Config, _ []string) int {
	normalizer := topics.New("")
	defer func() { _ = normalizer.Close() }()

	llmClient := llmprovider.New(cfg.LLM.BaseURL, os.Getenv(cfg.LLM.APIKeyEnv), cfg.LLM.CallTimeout)
	orchestrator := llmorch.New(llmClient, cfg.LLM, normalizer, metrics.NoOp{})
	proc := processor.New(store, packetfetch.New(), extract.NewPDFExtractor(), orchestrator, store)

	pool := queue.NewWorkerPool(dbClient.Client, cfg.Queue, proc)
	pool.Start(ctx)

	drainCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()
	<-drainCtx.Done()
	pool.Stop()

	health := pool.Health()
	if !health.IsHealthy {
		return exitPartialFailure
	}
	return exitOK
}

func runPreviewQueue(ctx context.Context, dbClient *database.Client) int {
	jobs, err := queue.PreviewPending(ctx, dbClient.Client, 20)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to preview queue: %v\n", err)
		return exitInputError
	}
	for _, j := range jobs {
		fmt.Printf("%d\t%s\tpriority=%d\tjob_type=%s\tsource=%s\n", j.ID, j.Status, j.Priority, j.JobType, j.SourceURL)
	}
	return exitOK
}

func runExtractText(ctx context.Context, store *repo.Repo, args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "extract-text requires <meeting_id>")
		return exitInputError
	}
	meeting, err := store.MeetingForProcessing(ctx, args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load meeting: %v\n", err)
		return exitInputError
	}
	if meeting.PacketURL == "" {
		fmt.Fprintln(os.Stderr, "meeting has no packet_url")
		return exitInputError
	}

	fetcher := packetfetch.New()
	data, err := fetcher.Download(ctx, meeting.PacketURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "download failed: %v\n", err)
		return exitPartialFailure
	}

	extractor := extract.NewPDFExtractor()
	result, err := extractor.Extract(ctx, meeting.PacketURL, data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "extraction failed: %v\n", err)
		return exitPartialFailure
	}
	if !result.Success {
		fmt.Fprintln(os.Stderr, "extraction produced no usable text")
		return exitPartialFailure
	}
	fmt.Println(result.Text)
	return exitOK
}

func runStatus(ctx context.Context, store *repo.Repo) int {
	cities, err := store.ActiveCities(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to list active cities: %v\n", err)
		return exitInputError
	}
	fmt.Printf("active cities: %d\n", len(cities))
	return exitOK
}

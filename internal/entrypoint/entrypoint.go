package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lari-ember/biblioteca-web/internal/catalog"
	"github.com/lari-ember/biblioteca-web/internal/config"
	"github.com/lari-ember/biblioteca-web/internal/database"
	catalogdb "github.com/lari-ember/biblioteca-web/internal/database/catalog"
	metricsdb "github.com/lari-ember/biblioteca-web/internal/database/metrics"
	http_controllers "github.com/lari-ember/biblioteca-web/internal/http"
	"github.com/lari-ember/biblioteca-web/internal/metadata"
	"github.com/lari-ember/biblioteca-web/internal/scheduler"
	"github.com/lari-ember/biblioteca-web/internal/search"
	"github.com/lari-ember/biblioteca-web/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT/SIGTERM, then shuts down within
// the configured timeout, calling onShutdown first.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run wires the catalog application together and serves it.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting Biblioteca v%s", version)

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// Catalog core: taxonomy, repositories, registrar
	taxonomy := catalog.NewTaxonomy()
	catalogRepo := catalogdb.NewRepository(db.DB)
	metricsRepo := metricsdb.NewRepository(db.DB)
	registrar := catalog.NewRegistrar(taxonomy, catalogRepo, cfg.Catalog.GenreFallback)

	// External metadata client and enricher
	openLibraryClient := metadata.NewClient(metadata.Config{
		BaseURL:       cfg.OpenLibrary.BaseURL,
		CoversBaseURL: cfg.OpenLibrary.CoversBaseURL,
		Timeout:       cfg.OpenLibrary.Timeout,
		RatePerMinute: cfg.OpenLibrary.RatePerMinute,
		CacheTTL:      cfg.OpenLibrary.CacheTTL,
		Lang:          cfg.OpenLibrary.Lang,
	})
	enricher := metadata.NewEnricher(openLibraryClient, catalogRepo)

	// Search aggregation over local catalog + Open Library
	aggregator := search.NewAggregator(catalogRepo, openLibraryClient, metricsRepo, search.Config{
		ResultCeiling:  cfg.Search.ResultCeiling,
		MinQueryLength: cfg.Search.MinQueryLength,
		MaxPageSize:    cfg.Search.MaxPageSize,
	})

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		// Register task queues
		taskClient.Register(
			tasks.NewEnrichBookQueue(enricher),
			tasks.NewEnrichAllBooksQueue(enricher),
			tasks.NewCleanupMetricsQueue(metricsRepo),
		)

		// Start task workers in background
		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// Schedule periodic metrics cleanup
	cleanupScheduler := scheduler.NewMetricsCleanupScheduler(taskClient, cfg.Metrics)
	if err := cleanupScheduler.Start(context.Background()); err != nil {
		log.Printf("WARNING: metrics cleanup scheduler failed to start: %v", err)
	}

	// Build router configuration with all dependencies
	routerCfg := http_controllers.RouterConfig{
		Database:     db,
		Registrar:    registrar,
		Taxonomy:     taxonomy,
		BookStore:    catalogRepo,
		Aggregator:   aggregator,
		MetricsStore: metricsRepo,
		TaskClient:   taskClient,
		Version:      version,
	}

	router := http_controllers.NewRouter(routerCfg)

	// Shutdown callback for graceful cleanup
	onShutdown := func(ctx context.Context) {
		cleanupScheduler.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}

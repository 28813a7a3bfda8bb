package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"docsearch/internal/classify"
	"docsearch/internal/config"
	"docsearch/internal/extract"
	"docsearch/internal/filetree"
	"docsearch/internal/handler"
	"docsearch/internal/indexer"
	"docsearch/internal/middleware"
	"docsearch/internal/repository/postgres"
	"docsearch/internal/scanner"
	"docsearch/internal/search"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"document_root", cfg.DocumentRoot,
		"scan_interval", cfg.ScanInterval,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Create pgx connection pool
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected")

	// Create repository
	tables := postgres.NewTableNames(cfg.TablePrefix)
	repo := postgres.NewDocumentRepository(&postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	})
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	// Create indexing pipeline
	classifier, err := classify.New()
	if err != nil {
		log.Fatalf("Failed to load format registry: %v", err)
	}
	extractors := extract.NewRegistry()
	ix := indexer.New(repo, classifier, extractors, cfg.DocumentRoot, logger)
	sc := scanner.New(ix, cfg.ScanInterval, logger)

	// Create services
	treeBuilder := filetree.New(classifier, logger)
	searchService := search.New(repo, logger)

	// Create handlers
	docHandler := handler.NewDocumentHandler(repo, logger)
	searchHandler := handler.NewSearchHandler(searchService, logger)
	treeHandler := handler.NewTreeHandler(treeBuilder, cfg.DocumentRoot, logger)
	scanHandler := handler.NewScanHandler(sc, ix, logger)
	statsHandler := handler.NewStatsHandler(repo, sc, cfg.DocumentRoot, logger)

	logger.Info("services initialized")

	// Start the background scan loop and queue the initial scan
	go sc.Run(ctx)
	sc.Trigger()

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/{$}", statsHandler.Root)
	mux.HandleFunc("POST /api/scan", scanHandler.TriggerScan)
	mux.HandleFunc("POST /api/reconcile", scanHandler.Reconcile)
	mux.HandleFunc("GET /api/file-tree", treeHandler.GetFileTree)
	mux.HandleFunc("POST /api/search", searchHandler.Search)
	// The documents subtree routes itself: its by-path wildcard and
	// {id}/download patterns would conflict in ServeMux.
	mux.HandleFunc("GET /api/documents/", docHandler.Resolve)
	mux.HandleFunc("GET /api/stats", statsHandler.GetStats)

	// Build middleware chain: CORS → Recovery → Routes
	var httpHandler http.Handler = mux
	httpHandler = middleware.Recovery(logger)(httpHandler)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	})
	httpHandler = corsHandler.Handler(httpHandler)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
}

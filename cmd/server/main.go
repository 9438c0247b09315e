package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/rulerag/internal/api"
	"github.com/dgallion1/rulerag/internal/config"
	"github.com/dgallion1/rulerag/internal/embedder"
	"github.com/dgallion1/rulerag/internal/pipeline"
	"github.com/dgallion1/rulerag/internal/retriever"
	"github.com/dgallion1/rulerag/internal/vectorstore"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gem, err := embedder.NewClient(ctx, cfg.GeminiAPIKey, cfg.EmbeddingModel)
	if err != nil {
		log.Error("gemini client init failed", "error", err)
		os.Exit(1)
	}

	params := retriever.Params{
		TopK:           cfg.TopK,
		BoostFactor:    cfg.BoostFactor,
		SemanticWeight: cfg.SemanticWeight,
		KeywordWeight:  cfg.KeywordWeight,
	}

	// Serve an existing snapshot if one is on disk; otherwise start without
	// an index and wait for the first reindex.
	var retr *retriever.Retriever
	if store, err := vectorstore.Load(cfg.DataDir); err == nil {
		retr = retriever.New(store, gem, params)
		log.Info("index snapshot loaded", "chunks", store.Len(), "dimension", store.Dimension())
	} else {
		log.Warn("no index snapshot, query endpoints unavailable until reindex", "dir", cfg.DataDir, "error", err)
	}

	builder := pipeline.NewBuilder(cfg, gem, log)
	sources := []string{cfg.HandbookPath, cfg.RulesPath}

	var srv *api.Server
	reindexer := pipeline.NewReindexer(builder, sources, cfg.JobTTL, func(store *vectorstore.HybridStore) {
		srv.SetRetriever(retriever.New(store, gem, params))
	}, log)
	reindexer.Start(ctx)

	srv = api.NewServer(retr, reindexer, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		reindexer.Stop()
	}()

	log.Info("starting rulerag", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

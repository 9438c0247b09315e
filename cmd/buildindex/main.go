package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/dgallion1/rulerag/internal/config"
	"github.com/dgallion1/rulerag/internal/embedder"
	"github.com/dgallion1/rulerag/internal/pipeline"
	"github.com/joho/godotenv"
)

// buildindex runs the offline build: extract, chunk, embed, index, snapshot.
// Sources default to the configured handbook and rules paths; extra paths
// can be given as arguments.
func main() {
	_ = godotenv.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	var dataDir string
	flag.StringVar(&dataDir, "out", "", "snapshot directory (overrides DATA_DIR)")
	flag.Parse()

	cfg := config.Load()
	if cfg.GeminiAPIKey == "" {
		log.Error("GEMINI_API_KEY is required")
		os.Exit(1)
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	sources := flag.Args()
	if len(sources) == 0 {
		sources = []string{cfg.HandbookPath, cfg.RulesPath}
	}

	ctx := context.Background()
	gem, err := embedder.NewClient(ctx, cfg.GeminiAPIKey, cfg.EmbeddingModel)
	if err != nil {
		log.Error("gemini client init failed", "error", err)
		os.Exit(1)
	}

	store, err := pipeline.NewBuilder(cfg, gem, log).Build(ctx, sources, nil)
	if err != nil {
		log.Error("index build failed", "error", err)
		os.Exit(1)
	}

	log.Info("done",
		"chunks", store.Len(),
		"dimension", store.Dimension(),
		"types", store.TypeCounts(),
		"snapshot", cfg.DataDir)
}

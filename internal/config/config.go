package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	ServiceAPIKey string

	// Gemini embeddings
	GeminiAPIKey   string
	EmbeddingModel string

	// Source documents
	HandbookPath string
	RulesPath    string

	// Index snapshot location
	DataDir string

	// Chunking
	ChunkSize    int
	ChunkOverlap int
	MinChunkSize int
	PageWindow   int

	// Retrieval
	TopK           int
	BoostFactor    float64
	SemanticWeight float64
	KeywordWeight  float64

	// Embedding worker pool
	EmbedConcurrency int

	// Reindex job state
	JobTTL time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		ServiceAPIKey: os.Getenv("RULERAG_API_KEY"),

		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		EmbeddingModel: envOr("EMBEDDING_MODEL", "text-embedding-004"),

		HandbookPath: envOr("HANDBOOK_PATH", "data/FSA_Competition_Handbook_2025.pdf"),
		RulesPath:    envOr("RULES_PATH", "data/FS-Rules_2025.pdf"),

		DataDir: envOr("DATA_DIR", "data/index"),

		ChunkSize:    envInt("CHUNK_SIZE", 2000),
		ChunkOverlap: envInt("CHUNK_OVERLAP", 200),
		MinChunkSize: envInt("MIN_CHUNK_SIZE", 100),
		PageWindow:   envInt("PAGE_WINDOW", 5),

		TopK:           envInt("TOP_K", 5),
		BoostFactor:    envFloat("BOOST_FACTOR", 1.5),
		SemanticWeight: envFloat("SEMANTIC_WEIGHT", 0.7),
		KeywordWeight:  envFloat("KEYWORD_WEIGHT", 0.3),

		EmbedConcurrency: envInt("EMBED_CONCURRENCY", 5),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),
	}

	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 2000
	}
	if cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		cfg.ChunkOverlap = 200
	}
	if cfg.MinChunkSize <= 0 {
		cfg.MinChunkSize = 100
	}
	if cfg.PageWindow <= 0 {
		cfg.PageWindow = 5
	}
	if cfg.TopK <= 0 {
		cfg.TopK = 5
	}
	if cfg.BoostFactor <= 0 {
		cfg.BoostFactor = 1.5
	}
	if cfg.SemanticWeight <= 0 {
		cfg.SemanticWeight = 0.7
	}
	if cfg.KeywordWeight < 0 {
		cfg.KeywordWeight = 0.3
	}
	if cfg.EmbedConcurrency <= 0 {
		cfg.EmbedConcurrency = 5
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.ServiceAPIKey == "" {
		return fmt.Errorf("RULERAG_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

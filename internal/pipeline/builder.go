package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/dgallion1/rulerag/internal/chunker"
	"github.com/dgallion1/rulerag/internal/config"
	"github.com/dgallion1/rulerag/internal/document"
	"github.com/dgallion1/rulerag/internal/embedder"
	"github.com/dgallion1/rulerag/internal/parser"
	"github.com/dgallion1/rulerag/internal/vectorstore"
)

// Builder runs the full build pipeline: extract, chunk, embed, index,
// snapshot. A failure at any stage halts the build; a partially built
// index is never written.
type Builder struct {
	embedder embedder.TextEmbedder
	cfg      config.Config
	chunkCfg chunker.Config
	log      *slog.Logger
}

func NewBuilder(cfg config.Config, e embedder.TextEmbedder, log *slog.Logger) *Builder {
	return &Builder{
		embedder: e,
		cfg:      cfg,
		chunkCfg: chunker.Config{
			ChunkSize:    cfg.ChunkSize,
			ChunkOverlap: cfg.ChunkOverlap,
			MinChunk:     cfg.MinChunkSize,
			PageWindow:   cfg.PageWindow,
		},
		log: log,
	}
}

// Build processes the given source documents into a searchable hybrid store
// and snapshots it under the configured data dir. Chunk and embedding JSON
// files are written per document as build artifacts. job may be nil when no
// progress tracking is wanted.
func (b *Builder) Build(ctx context.Context, paths []string, job *Job) (*vectorstore.HybridStore, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no source documents configured")
	}
	if job != nil {
		job.SetTotalDocuments(len(paths))
	}

	var all []document.EmbeddedChunk
	for _, path := range paths {
		embedded, err := b.processDocument(ctx, path, job)
		if err != nil {
			if job != nil {
				job.AddError(err.Error())
			}
			return nil, err
		}
		all = append(all, embedded...)
		if job != nil {
			job.IncrDocumentsProcessed()
		}
	}

	if job != nil {
		job.SetStatus(StatusIndexing, "building index")
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("no chunks produced from %d documents", len(paths))
	}

	store := vectorstore.NewHybrid(len(all[0].Embedding))
	if err := store.Add(all); err != nil {
		return nil, fmt.Errorf("index chunks: %w", err)
	}
	if err := store.Save(b.cfg.DataDir); err != nil {
		return nil, fmt.Errorf("snapshot index: %w", err)
	}

	b.log.Info("index built",
		"documents", len(paths),
		"chunks", store.Len(),
		"dimension", store.Dimension(),
		"dir", b.cfg.DataDir)
	return store, nil
}

func (b *Builder) processDocument(ctx context.Context, path string, job *Job) ([]document.EmbeddedChunk, error) {
	name := filepath.Base(path)
	log := b.log.With("document", name)

	if job != nil {
		job.SetStatus(StatusExtracting, name)
	}
	doc, err := parser.ProcessFile(path)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", name, err)
	}
	docStats := document.ComputeStats(doc)
	log.Info("document extracted",
		"type", doc.Type,
		"pages", docStats.TotalPages,
		"characters", docStats.TotalCharacters,
		"rule_ids", docStats.UniqueRuleIDs)

	if job != nil {
		job.SetStatus(StatusChunking, name)
	}
	chunks := chunker.ChunkDocument(doc, b.chunkCfg)
	if err := embedder.SaveChunks(chunks, b.artifactPath(name, "chunks")); err != nil {
		return nil, err
	}
	chunkStats := document.ComputeChunkStats(chunks)
	log.Info("document chunked",
		"chunks", chunkStats.TotalChunks,
		"avg_chunk_size", chunkStats.AvgChunkSize,
		"max_chunk_size", chunkStats.MaxChunkSize)

	if job != nil {
		job.SetStatus(StatusEmbedding, name)
	}
	embedded, err := embedder.EmbedChunks(ctx, b.embedder, chunks, b.cfg.EmbedConcurrency, log)
	if err != nil {
		return nil, fmt.Errorf("embed %s: %w", name, err)
	}
	if err := embedder.SaveEmbeddings(embedded, b.artifactPath(name, "embeddings")); err != nil {
		return nil, err
	}

	if job != nil {
		job.AddChunks(len(chunks), len(embedded))
	}
	return embedded, nil
}

// artifactPath names a per-document build artifact, e.g.
// data/index/chunks_FS-Rules_2025.json.
func (b *Builder) artifactPath(filename, kind string) string {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	return filepath.Join(b.cfg.DataDir, kind+"_"+stem+".json")
}

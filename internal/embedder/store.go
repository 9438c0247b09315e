package embedder

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dgallion1/rulerag/internal/document"
)

// SaveEmbeddings writes embedded chunks as a JSON list. Every field is
// preserved so that load(save(x)) == x.
func SaveEmbeddings(embedded []document.EmbeddedChunk, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create embeddings dir: %w", err)
	}

	data, err := json.MarshalIndent(embedded, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal embeddings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write embeddings: %w", err)
	}
	return nil
}

// LoadEmbeddings reads embedded chunks back. A record missing its ID,
// vector or model name is fatal; no partial reconstruction.
func LoadEmbeddings(path string) ([]document.EmbeddedChunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read embeddings: %w", err)
	}

	var embedded []document.EmbeddedChunk
	if err := json.Unmarshal(data, &embedded); err != nil {
		return nil, fmt.Errorf("decode embeddings %s: %w", path, err)
	}

	for i, ec := range embedded {
		if ec.ChunkID == "" {
			return nil, fmt.Errorf("embeddings %s: record %d missing chunk_id", path, i)
		}
		if len(ec.Embedding) == 0 {
			return nil, fmt.Errorf("embeddings %s: record %s missing embedding", path, ec.ChunkID)
		}
		if ec.EmbeddingModel == "" {
			return nil, fmt.Errorf("embeddings %s: record %s missing embedding_model", path, ec.ChunkID)
		}
	}
	return embedded, nil
}

// SaveChunks writes the chunker's output as the build-time interchange
// format between chunking and embedding.
func SaveChunks(chunks []document.Chunk, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create chunks dir: %w", err)
	}

	data, err := json.MarshalIndent(chunks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal chunks: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write chunks: %w", err)
	}
	return nil
}

// LoadChunks reads a chunk list written by SaveChunks.
func LoadChunks(path string) ([]document.Chunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read chunks: %w", err)
	}

	var chunks []document.Chunk
	if err := json.Unmarshal(data, &chunks); err != nil {
		return nil, fmt.Errorf("decode chunks %s: %w", path, err)
	}
	for i, c := range chunks {
		if c.ChunkID == "" {
			return nil, fmt.Errorf("chunks %s: record %d missing chunk_id", path, i)
		}
	}
	return chunks, nil
}

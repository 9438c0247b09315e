package vectorstore

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dgallion1/rulerag/internal/document"
)

const (
	indexFile  = "index.bin"
	chunksFile = "chunks.json"
)

// snapshot is the gob-encoded binary form of the nearest-neighbor
// structure: the already-normalized vector matrix.
type snapshot struct {
	Dimension int
	Vectors   [][]float32
}

// Save writes the store to a directory: the binary vector index plus the
// serialized chunk list. A loaded snapshot answers queries identically.
func (h *HybridStore) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, indexFile))
	if err != nil {
		return fmt.Errorf("create index file: %w", err)
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(snapshot{Dimension: h.dimension, Vectors: h.vectors}); err != nil {
		return fmt.Errorf("encode index: %w", err)
	}

	data, err := json.Marshal(h.chunks)
	if err != nil {
		return fmt.Errorf("marshal chunks: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, chunksFile), data, 0o644); err != nil {
		return fmt.Errorf("write chunks: %w", err)
	}
	return nil
}

// Load restores a hybrid store from a snapshot directory. A missing or
// inconsistent snapshot is fatal; no partial reconstruction.
func Load(dir string) (*HybridStore, error) {
	f, err := os.Open(filepath.Join(dir, indexFile))
	if err != nil {
		return nil, fmt.Errorf("open index file: %w", err)
	}
	defer f.Close()

	var snap snapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode index: %w", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, chunksFile))
	if err != nil {
		return nil, fmt.Errorf("read chunks: %w", err)
	}
	var chunks []document.EmbeddedChunk
	if err := json.Unmarshal(data, &chunks); err != nil {
		return nil, fmt.Errorf("decode chunks: %w", err)
	}

	if len(chunks) != len(snap.Vectors) {
		return nil, fmt.Errorf("snapshot mismatch: %d chunks but %d vectors", len(chunks), len(snap.Vectors))
	}

	h := NewHybrid(snap.Dimension)
	h.vectors = snap.Vectors
	h.chunks = chunks
	for i, ec := range chunks {
		h.byID[ec.ChunkID] = i
		for _, id := range ec.Metadata.RuleIDs {
			key := id.Normalize()
			h.keywordIndex[key] = append(h.keywordIndex[key], ec.ChunkID)
		}
	}
	return h, nil
}

package vectorstore

import (
	"fmt"
	"math"
	"sort"

	"github.com/dgallion1/rulerag/internal/document"
)

// SearchResult is one ranked hit. Request-scoped, never persisted.
type SearchResult struct {
	ChunkID  string                 `json:"chunk_id"`
	Text     string                 `json:"text"`
	Metadata document.ChunkMetadata `json:"metadata"`
	Score    float64                `json:"score"`
	Rank     int                    `json:"rank"` // 1-based, contiguous
}

// Store is a flat inner-product index over L2-normalized embeddings.
// Normalizing on insert makes inner product equal cosine similarity.
// The store is mutated only during the build phase; concurrent Add during
// active Search is undefined and must be prevented by the caller.
type Store struct {
	dimension int
	vectors   [][]float32
	chunks    []document.EmbeddedChunk
	byID      map[string]int // chunk ID -> position
}

// New creates an empty store for vectors of the given dimension.
func New(dimension int) *Store {
	return &Store{
		dimension: dimension,
		byID:      make(map[string]int),
	}
}

// Dimension returns the vector dimension.
func (s *Store) Dimension() int { return s.dimension }

// Len returns the number of indexed chunks.
func (s *Store) Len() int { return len(s.chunks) }

// Add appends embedded chunks, normalizing each vector for inner-product
// search.
func (s *Store) Add(embedded []document.EmbeddedChunk) error {
	for _, ec := range embedded {
		if len(ec.Embedding) != s.dimension {
			return fmt.Errorf("chunk %s: embedding dimension %d, index expects %d", ec.ChunkID, len(ec.Embedding), s.dimension)
		}
		s.byID[ec.ChunkID] = len(s.chunks)
		s.vectors = append(s.vectors, normalize(ec.Embedding))
		s.chunks = append(s.chunks, ec)
	}
	return nil
}

// TypeCounts returns the number of indexed chunks per document type.
func (s *Store) TypeCounts() map[document.Type]int {
	counts := make(map[document.Type]int)
	for _, c := range s.chunks {
		counts[c.Metadata.DocumentType]++
	}
	return counts
}

// ChunkByID returns the chunk with the given ID, if indexed.
func (s *Store) ChunkByID(id string) (document.EmbeddedChunk, bool) {
	pos, ok := s.byID[id]
	if !ok {
		return document.EmbeddedChunk{}, false
	}
	return s.chunks[pos], true
}

// Search returns the best-scoring chunks for a query vector. The candidate
// pool is over-fetched to 2×topK before the metadata filter is applied, so
// filtering does not starve the result count. An empty index yields an
// empty result, not an error. Ranks are 1-based and contiguous.
func (s *Store) Search(query []float32, topK int, filter map[string]string) []SearchResult {
	if len(s.chunks) == 0 || topK <= 0 {
		return nil
	}

	q := normalize(query)
	candidates := s.topCandidates(q, min(topK*2, len(s.chunks)))

	var results []SearchResult
	for _, c := range candidates {
		chunk := s.chunks[c.pos]
		if !matchesFilter(chunk.Metadata, filter) {
			continue
		}
		results = append(results, SearchResult{
			ChunkID:  chunk.ChunkID,
			Text:     chunk.Text,
			Metadata: chunk.Metadata,
			Score:    c.score,
			Rank:     len(results) + 1,
		})
		if len(results) >= topK {
			break
		}
	}
	return results
}

type candidate struct {
	pos   int
	score float64
}

// topCandidates scores every vector and returns the best n in descending
// order, ties broken by insertion order for deterministic ranking.
func (s *Store) topCandidates(q []float32, n int) []candidate {
	candidates := make([]candidate, len(s.vectors))
	for i, v := range s.vectors {
		candidates[i] = candidate{pos: i, score: dot(v, q)}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if n < len(candidates) {
		candidates = candidates[:n]
	}
	return candidates
}

// matchesFilter applies an exact-match conjunction over the listed keys.
func matchesFilter(meta document.ChunkMetadata, filter map[string]string) bool {
	for key, want := range filter {
		switch key {
		case "document_type":
			if string(meta.DocumentType) != want {
				return false
			}
		case "filename":
			if meta.Filename != want {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func normalize(v []float32) []float32 {
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	if norm == 0 {
		out := make([]float32, len(v))
		copy(out, v)
		return out
	}
	inv := 1 / math.Sqrt(norm)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) * inv)
	}
	return out
}

func dot(a, b []float32) float64 {
	n := min(len(a), len(b))
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

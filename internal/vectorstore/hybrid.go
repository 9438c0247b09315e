package vectorstore

import (
	"sort"

	"github.com/dgallion1/rulerag/internal/document"
)

// Default hybrid weights.
const (
	DefaultSemanticWeight = 0.7
	DefaultKeywordWeight  = 0.3
)

// HybridStore extends Store with an exact-match keyword index over rule
// identifiers, so a query citing "D 4.3.3" surfaces the chunks that contain
// that clause even when semantic similarity alone would miss them.
type HybridStore struct {
	*Store
	keywordIndex map[string][]string // normalized rule ID -> chunk IDs
}

// NewHybrid creates an empty hybrid store.
func NewHybrid(dimension int) *HybridStore {
	return &HybridStore{
		Store:        New(dimension),
		keywordIndex: make(map[string][]string),
	}
}

// Add indexes chunks for both semantic and keyword search. The keyword map
// grows incrementally with each batch.
func (h *HybridStore) Add(embedded []document.EmbeddedChunk) error {
	if err := h.Store.Add(embedded); err != nil {
		return err
	}
	for _, ec := range embedded {
		for _, id := range ec.Metadata.RuleIDs {
			key := id.Normalize()
			h.keywordIndex[key] = append(h.keywordIndex[key], ec.ChunkID)
		}
	}
	return nil
}

// KeywordMatches returns the chunk IDs indexed under a rule identifier.
func (h *HybridStore) KeywordMatches(ruleID string) []string {
	return h.keywordIndex[document.NormalizeRuleID(ruleID)]
}

// SearchHybrid blends semantic similarity with exact rule-ID matching.
// Semantic hits contribute semanticWeight × score; every chunk whose rule
// IDs appear in the query text gains keywordWeight once, including chunks
// with no semantic presence at all. A chunk citing several of the queried
// rules is still a single keyword match.
func (h *HybridStore) SearchHybrid(query []float32, queryText string, topK int, semanticWeight, keywordWeight float64) []SearchResult {
	if topK <= 0 {
		return nil
	}

	semantic := h.Search(query, topK*2, nil)

	combined := make(map[string]float64, len(semantic))
	order := make([]string, 0, len(semantic))
	for _, r := range semantic {
		combined[r.ChunkID] = semanticWeight * r.Score
		order = append(order, r.ChunkID)
	}

	matched := make(map[string]bool)
	for _, id := range document.ExtractRuleIDs(queryText) {
		for _, chunkID := range h.keywordIndex[id.Normalize()] {
			if matched[chunkID] {
				continue
			}
			matched[chunkID] = true
			if _, ok := combined[chunkID]; ok {
				combined[chunkID] += keywordWeight
			} else {
				combined[chunkID] = keywordWeight
				order = append(order, chunkID)
			}
		}
	}

	// Candidates were assembled in deterministic order (semantic rank,
	// then keyword-only hits); a stable sort keeps ties reproducible.
	sort.SliceStable(order, func(i, j int) bool {
		return combined[order[i]] > combined[order[j]]
	})
	if topK < len(order) {
		order = order[:topK]
	}

	results := make([]SearchResult, 0, len(order))
	for _, chunkID := range order {
		chunk, ok := h.ChunkByID(chunkID)
		if !ok {
			continue
		}
		results = append(results, SearchResult{
			ChunkID:  chunk.ChunkID,
			Text:     chunk.Text,
			Metadata: chunk.Metadata,
			Score:    combined[chunkID],
			Rank:     len(results) + 1,
		})
	}
	return results
}

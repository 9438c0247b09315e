package retriever

import (
	"context"
	"fmt"

	"github.com/dgallion1/rulerag/internal/document"
	"github.com/dgallion1/rulerag/internal/vectorstore"
)

// Retrieval method names reported in results.
const (
	MethodSemantic      = "semantic"
	MethodHybrid        = "hybrid"
	MethodHybridBoosted = "hybrid_with_handbook_boost"
)

// HandbookBoostFactor is the default multiplier for handbook scores so the
// authoritative handbook outranks the rules document at equal or
// near-equal similarity.
const HandbookBoostFactor = 1.5

// QueryEmbedder embeds search queries.
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, query string) ([]float32, error)
}

// RetrievalResult is the outcome of one retrieval call. Request-scoped.
type RetrievalResult struct {
	Chunks         []vectorstore.SearchResult `json:"chunks"`
	Query          string                     `json:"query"`
	QueryEmbedding []float32                  `json:"-"`
	Method         string                     `json:"retrieval_method"`
	TotalFound     int                        `json:"total_found"`
}

// Options control a single retrieval.
type Options struct {
	TopK         int           // 0 uses the retriever default
	DocumentType document.Type // optional exact-match type filter (semantic mode only)
	Hybrid       bool          // blend keyword matching into the ranking
}

// Params tune a retriever. Zero values fall back to the defaults.
type Params struct {
	TopK           int
	BoostFactor    float64
	SemanticWeight float64
	KeywordWeight  float64
}

// Retriever orchestrates query embedding and index search.
type Retriever struct {
	store          *vectorstore.HybridStore
	embedder       QueryEmbedder
	topK           int
	boostFactor    float64
	semanticWeight float64
	keywordWeight  float64
}

// New creates a retriever.
func New(store *vectorstore.HybridStore, embedder QueryEmbedder, p Params) *Retriever {
	if p.TopK <= 0 {
		p.TopK = 5
	}
	if p.BoostFactor <= 0 {
		p.BoostFactor = HandbookBoostFactor
	}
	if p.SemanticWeight <= 0 {
		p.SemanticWeight = vectorstore.DefaultSemanticWeight
	}
	if p.KeywordWeight < 0 {
		p.KeywordWeight = vectorstore.DefaultKeywordWeight
	}
	return &Retriever{
		store:          store,
		embedder:       embedder,
		topK:           p.TopK,
		boostFactor:    p.BoostFactor,
		semanticWeight: p.SemanticWeight,
		keywordWeight:  p.KeywordWeight,
	}
}

// Retrieve embeds the query and searches the index. An embedding failure
// propagates; an empty index simply yields no chunks.
func (r *Retriever) Retrieve(ctx context.Context, query string, opts Options) (RetrievalResult, error) {
	topK := opts.TopK
	if topK <= 0 {
		topK = r.topK
	}

	queryVec, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return RetrievalResult{}, fmt.Errorf("embed query: %w", err)
	}

	var chunks []vectorstore.SearchResult
	method := MethodSemantic
	if opts.Hybrid {
		chunks = r.store.SearchHybrid(queryVec, query, topK,
			r.semanticWeight, r.keywordWeight)
		method = MethodHybrid
	} else {
		var filter map[string]string
		if opts.DocumentType != "" {
			filter = map[string]string{"document_type": string(opts.DocumentType)}
		}
		chunks = r.store.Search(queryVec, topK, filter)
	}

	return RetrievalResult{
		Chunks:         chunks,
		Query:          query,
		QueryEmbedding: queryVec,
		Method:         method,
		TotalFound:     len(chunks),
	}, nil
}

// RetrieveWithPriorityBoost retrieves a widened hybrid candidate set and
// re-ranks it so handbook chunks outrank rules chunks at near-ties.
// The handbook takes precedence over the rules document by event policy.
func (r *Retriever) RetrieveWithPriorityBoost(ctx context.Context, query string, topK int) (RetrievalResult, error) {
	if topK <= 0 {
		topK = r.topK
	}

	initial, err := r.Retrieve(ctx, query, Options{TopK: topK * 2, Hybrid: true})
	if err != nil {
		return RetrievalResult{}, err
	}

	boosted := ApplyPriorityBoost(initial.Chunks, document.TypeHandbook, r.boostFactor, topK)

	return RetrievalResult{
		Chunks:         boosted,
		Query:          query,
		QueryEmbedding: initial.QueryEmbedding,
		Method:         MethodHybridBoosted,
		TotalFound:     len(boosted),
	}, nil
}

// RetrieveByRuleID looks up chunks that genuinely cite a rule. The rule ID
// is used as a query over a wider candidate set, then semantic neighbors
// that do not actually contain the identifier are filtered out.
func (r *Retriever) RetrieveByRuleID(ctx context.Context, ruleID string) ([]vectorstore.SearchResult, error) {
	result, err := r.Retrieve(ctx, "Rule "+ruleID, Options{TopK: 10, Hybrid: true})
	if err != nil {
		return nil, err
	}

	var matched []vectorstore.SearchResult
	for _, chunk := range result.Chunks {
		ec, ok := r.store.ChunkByID(chunk.ChunkID)
		if ok && ec.HasRuleID(ruleID) {
			matched = append(matched, chunk)
		}
	}
	return matched, nil
}

// Stats summarizes the retriever's index.
type Stats struct {
	TotalChunks   int                   `json:"total_chunks"`
	Dimension     int                   `json:"dimension"`
	DocumentTypes map[document.Type]int `json:"document_types"`
	DefaultTopK   int                   `json:"default_top_k"`
}

// GetStats reports index statistics.
func (r *Retriever) GetStats() Stats {
	return Stats{
		TotalChunks:   r.store.Len(),
		Dimension:     r.store.Dimension(),
		DocumentTypes: r.store.TypeCounts(),
		DefaultTopK:   r.topK,
	}
}

package retriever

import (
	"sort"

	"github.com/dgallion1/rulerag/internal/document"
	"github.com/dgallion1/rulerag/internal/vectorstore"
)

// ApplyPriorityBoost multiplies the score of chunks from the given document
// type by factor, re-sorts, truncates to topK, and reassigns contiguous
// ranks. The input slice is left untouched.
func ApplyPriorityBoost(results []vectorstore.SearchResult, docType document.Type, factor float64, topK int) []vectorstore.SearchResult {
	boosted := make([]vectorstore.SearchResult, len(results))
	copy(boosted, results)

	for i := range boosted {
		if boosted[i].Metadata.DocumentType == docType {
			boosted[i].Score *= factor
		}
	}

	sort.SliceStable(boosted, func(i, j int) bool {
		return boosted[i].Score > boosted[j].Score
	})
	if topK > 0 && topK < len(boosted) {
		boosted = boosted[:topK]
	}
	for i := range boosted {
		boosted[i].Rank = i + 1
	}
	return boosted
}

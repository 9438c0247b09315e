package retriever

import (
	"fmt"
	"strings"

	"github.com/dgallion1/rulerag/internal/vectorstore"
)

// NoContextSentinel is returned by FormatContext when nothing was retrieved.
// Downstream consumers treat it as "answer from general knowledge".
const NoContextSentinel = "No relevant context found."

// FormatContext renders retrieved chunks as a single prompt-ready block,
// each chunk prefixed with its provenance.
func FormatContext(chunks []vectorstore.SearchResult) string {
	if len(chunks) == 0 {
		return NoContextSentinel
	}

	var b strings.Builder
	for i, c := range chunks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[Source: %s, pages %d-%d, relevance %.3f]\n",
			c.Metadata.DocumentType, c.Metadata.PageStart, c.Metadata.PageEnd, c.Score)
		b.WriteString(c.Text)
	}
	return b.String()
}

package chunker

import (
	"fmt"
	"strings"

	"github.com/dgallion1/rulerag/internal/document"
)

// Config controls chunking behavior. Sizes are in characters.
type Config struct {
	ChunkSize    int // Target chunk size.
	ChunkOverlap int // Trailing overlap carried into the next chunk.
	MinChunk     int // Minimum chunk size to emit.
	PageWindow   int // Pages combined per chunking window.
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ChunkSize:    2000,
		ChunkOverlap: 200,
		MinChunk:     100,
		PageWindow:   5,
	}
}

// ChunkDocument splits a document into overlapping, boundary-aware chunks.
// Pages are grouped into fixed windows so that sections spanning page breaks
// stay together; within a window, text is split at section boundaries near
// the target size, with a trailing overlap duplicated into the next chunk.
func ChunkDocument(doc *document.Document, cfg Config) []document.Chunk {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 2000
	}
	if cfg.ChunkOverlap <= 0 {
		cfg.ChunkOverlap = 200
	}
	if cfg.MinChunk <= 0 {
		cfg.MinChunk = 100
	}
	if cfg.PageWindow <= 0 {
		cfg.PageWindow = 5
	}

	var chunks []document.Chunk
	counter := 0

	for start := 0; start < len(doc.Pages); start += cfg.PageWindow {
		end := min(start+cfg.PageWindow, len(doc.Pages))
		window := doc.Pages[start:end]

		meta := document.ChunkMetadata{
			DocumentType: doc.Type,
			Filename:     doc.Filename,
			PageStart:    window[0].Number,
			PageEnd:      window[len(window)-1].Number,
		}

		counter = splitWindow(combineWindow(window), meta, cfg, &chunks, counter)
	}

	return chunks
}

// combineWindow joins a page window into one text, each page prefixed with
// a marker so provenance survives chunk boundaries.
func combineWindow(pages []document.Page) string {
	parts := make([]string, len(pages))
	for i, page := range pages {
		parts[i] = fmt.Sprintf("--- Page %d ---\n%s", page.Number, page.Text)
	}
	return strings.Join(parts, "\n\n")
}

// splitWindow accumulates lines into chunks, closing a chunk when the next
// line would overflow the target and either looks like a section boundary or
// the buffer is already full. The tail of each closed chunk is carried into
// the next as overlap.
func splitWindow(text string, meta document.ChunkMetadata, cfg Config, chunks *[]document.Chunk, counter int) int {
	lines := strings.Split(text, "\n")

	var buf []string
	size := 0

	for _, line := range lines {
		lineLen := len(line) + 1 // +1 for the newline

		if size+lineLen > cfg.ChunkSize && len(buf) > 0 {
			if isSectionBoundary(line) || size >= cfg.ChunkSize {
				chunkText := strings.Join(buf, "\n")
				if len(chunkText) >= cfg.MinChunk {
					meta.ChunkNumber = counter
					*chunks = append(*chunks, document.NewChunk(chunkID(meta.DocumentType, counter), chunkText, meta))
					counter++
				}

				buf = overlapLines(buf, cfg.ChunkOverlap)
				size = 0
				for _, l := range buf {
					size += len(l) + 1
				}
			}
		}

		buf = append(buf, line)
		size += lineLen
	}

	if len(buf) > 0 {
		chunkText := strings.Join(buf, "\n")
		if len(chunkText) >= cfg.MinChunk {
			meta.ChunkNumber = counter
			*chunks = append(*chunks, document.NewChunk(chunkID(meta.DocumentType, counter), chunkText, meta))
			counter++
		}
	}

	return counter
}

// overlapLines takes whole lines from the end of a closed chunk, working
// backward until adding another would exceed the overlap budget.
func overlapLines(lines []string, target int) []string {
	var overlap []string
	size := 0
	for i := len(lines) - 1; i >= 0; i-- {
		lineLen := len(lines[i]) + 1
		if size+lineLen > target {
			break
		}
		overlap = append([]string{lines[i]}, overlap...)
		size += lineLen
	}
	return overlap
}

func chunkID(docType document.Type, counter int) string {
	return fmt.Sprintf("%s_%d", docType, counter)
}

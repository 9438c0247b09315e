package document

import "strings"

// ChunkMetadata carries the provenance of a chunk.
type ChunkMetadata struct {
	DocumentType Type     `json:"document_type"`
	Filename     string   `json:"filename"`
	PageStart    int      `json:"page_start"`
	PageEnd      int      `json:"page_end"`
	ChunkNumber  int      `json:"chunk_number"`
	RuleIDs      []RuleID `json:"rule_ids"`
}

// Chunk is a bounded span of document text stored as a retrievable unit.
// CharCount always equals len(Text); ChunkID is unique within a document.
type Chunk struct {
	ChunkID   string        `json:"chunk_id"`
	Text      string        `json:"text"`
	Metadata  ChunkMetadata `json:"metadata"`
	CharCount int           `json:"char_count"`
	WordCount int           `json:"word_count"`
}

// NewChunk builds a chunk from text, deriving counts and rule IDs.
func NewChunk(id string, text string, meta ChunkMetadata) Chunk {
	meta.RuleIDs = ExtractRuleIDs(text)
	trimmed := strings.TrimSpace(text)
	return Chunk{
		ChunkID:   id,
		Text:      trimmed,
		Metadata:  meta,
		CharCount: len(trimmed),
		WordCount: len(strings.Fields(trimmed)),
	}
}

// EmbeddedChunk is a chunk with its embedding vector. Created once at build
// time and immutable thereafter; re-embedding regenerates the whole set.
type EmbeddedChunk struct {
	ChunkID        string        `json:"chunk_id"`
	Text           string        `json:"text"`
	Embedding      []float32     `json:"embedding"`
	Metadata       ChunkMetadata `json:"metadata"`
	EmbeddingModel string        `json:"embedding_model"`
}

// HasRuleID reports whether the chunk's metadata contains the given rule ID
// after whitespace normalization.
func (c *EmbeddedChunk) HasRuleID(ruleID string) bool {
	want := NormalizeRuleID(ruleID)
	if want == "" {
		return false
	}
	for _, r := range c.Metadata.RuleIDs {
		if strings.Contains(r.Normalize(), want) {
			return true
		}
	}
	return false
}

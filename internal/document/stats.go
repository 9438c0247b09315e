package document

import "strings"

// Stats is a read-only summary of an extracted document.
type Stats struct {
	Filename        string `json:"filename"`
	DocumentType    Type   `json:"document_type"`
	TotalPages      int    `json:"total_pages"`
	TotalCharacters int    `json:"total_characters"`
	TotalWords      int    `json:"total_words"`
	AvgCharsPerPage int    `json:"avg_chars_per_page"`
	UniqueRuleIDs   int    `json:"unique_rule_ids"`
}

// ComputeStats derives statistics from a document. It does not mutate the
// document.
func ComputeStats(doc *Document) Stats {
	s := Stats{
		Filename:     doc.Filename,
		DocumentType: doc.Type,
		TotalPages:   len(doc.Pages),
	}

	seen := make(map[string]bool)
	for _, page := range doc.Pages {
		s.TotalCharacters += len(page.Text)
		s.TotalWords += len(strings.Fields(page.Text))
		for _, id := range ExtractRuleIDs(page.Text) {
			seen[id.Normalize()] = true
		}
	}
	s.UniqueRuleIDs = len(seen)
	if s.TotalPages > 0 {
		s.AvgCharsPerPage = s.TotalCharacters / s.TotalPages
	}
	return s
}

// ChunkStats summarizes a chunk sequence.
type ChunkStats struct {
	TotalChunks     int `json:"total_chunks"`
	AvgChunkSize    int `json:"avg_chunk_size"`
	MinChunkSize    int `json:"min_chunk_size"`
	MaxChunkSize    int `json:"max_chunk_size"`
	AvgWordCount    int `json:"avg_word_count"`
	TotalCharacters int `json:"total_characters"`
	TotalWords      int `json:"total_words"`
}

// ComputeChunkStats derives statistics from a chunk sequence.
func ComputeChunkStats(chunks []Chunk) ChunkStats {
	if len(chunks) == 0 {
		return ChunkStats{}
	}

	s := ChunkStats{
		TotalChunks:  len(chunks),
		MinChunkSize: chunks[0].CharCount,
	}
	for _, c := range chunks {
		s.TotalCharacters += c.CharCount
		s.TotalWords += c.WordCount
		if c.CharCount < s.MinChunkSize {
			s.MinChunkSize = c.CharCount
		}
		if c.CharCount > s.MaxChunkSize {
			s.MaxChunkSize = c.CharCount
		}
	}
	s.AvgChunkSize = s.TotalCharacters / len(chunks)
	s.AvgWordCount = s.TotalWords / len(chunks)
	return s
}

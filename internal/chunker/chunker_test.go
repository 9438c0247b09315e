package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/dgallion1/rulerag/internal/document"
)

func rulesDoc(pages ...string) *document.Document {
	doc := &document.Document{
		Filename: "FS-Rules_2025.pdf",
		Type:     document.TypeRules,
	}
	for i, text := range pages {
		doc.Pages = append(doc.Pages, document.Page{Number: i + 1, Text: text})
	}
	return doc
}

func TestChunkDocument_SmallDocSingleChunk(t *testing.T) {
	doc := rulesDoc(
		"D 4.3.3 Skidpad scoring uses the corrected time.",
		"D 4.2.3 Acceleration scoring uses t_max.",
		"General event provisions apply to all teams.",
	)
	cfg := Config{ChunkSize: 10000, ChunkOverlap: 200, MinChunk: 50, PageWindow: 5}

	chunks := ChunkDocument(doc, cfg)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}

	c := chunks[0]
	for i := 1; i <= 3; i++ {
		marker := fmt.Sprintf("--- Page %d ---", i)
		if !strings.Contains(c.Text, marker) {
			t.Errorf("chunk missing page marker %q", marker)
		}
	}
	if c.ChunkID != "FS_Rules_0" {
		t.Errorf("expected chunk ID FS_Rules_0, got %q", c.ChunkID)
	}
	if c.Metadata.PageStart != 1 || c.Metadata.PageEnd != 3 {
		t.Errorf("expected page range 1-3, got %d-%d", c.Metadata.PageStart, c.Metadata.PageEnd)
	}

	got := make(map[string]bool)
	for _, id := range c.Metadata.RuleIDs {
		got[id.String()] = true
	}
	if !got["D 4.3.3"] || !got["D 4.2.3"] {
		t.Errorf("expected rule IDs D 4.3.3 and D 4.2.3, got %v", c.Metadata.RuleIDs)
	}
}

func TestChunkDocument_Invariants(t *testing.T) {
	// Build a page large enough to force several chunks.
	var sb strings.Builder
	for i := 0; i < 60; i++ {
		fmt.Fprintf(&sb, "D 4.%d General provision number %d for the dynamic event.\n", i, i)
		sb.WriteString(strings.Repeat("Detail text for the provision above. ", 3))
		sb.WriteString("\n")
	}
	doc := rulesDoc(sb.String())
	cfg := Config{ChunkSize: 800, ChunkOverlap: 150, MinChunk: 100, PageWindow: 5}

	chunks := ChunkDocument(doc, cfg)
	if len(chunks) < 3 {
		t.Fatalf("expected several chunks, got %d", len(chunks))
	}

	for i, c := range chunks {
		if c.CharCount != len(c.Text) {
			t.Errorf("chunk %d: CharCount %d != len(Text) %d", i, c.CharCount, len(c.Text))
		}
		if c.WordCount != len(strings.Fields(c.Text)) {
			t.Errorf("chunk %d: WordCount mismatch", i)
		}
		if c.CharCount < cfg.MinChunk {
			t.Errorf("chunk %d: size %d below MinChunk %d", i, c.CharCount, cfg.MinChunk)
		}
		if c.Metadata.ChunkNumber != i {
			t.Errorf("chunk %d: expected chunk number %d, got %d", i, i, c.Metadata.ChunkNumber)
		}
		if want := fmt.Sprintf("FS_Rules_%d", i); c.ChunkID != want {
			t.Errorf("chunk %d: expected ID %s, got %s", i, want, c.ChunkID)
		}
	}
}

func TestChunkDocument_OverlapContinuity(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 80; i++ {
		fmt.Fprintf(&sb, "line %02d of the rules body text\n", i)
	}
	doc := rulesDoc(sb.String())
	cfg := Config{ChunkSize: 600, ChunkOverlap: 120, MinChunk: 50, PageWindow: 5}

	chunks := ChunkDocument(doc, cfg)
	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks, got %d", len(chunks))
	}

	// The overlap tail of chunk i must appear verbatim at the head of
	// chunk i+1 (after any leading lines dropped by trimming).
	for i := 0; i+1 < len(chunks); i++ {
		nextLines := strings.Split(chunks[i+1].Text, "\n")
		if len(nextLines) == 0 {
			t.Fatalf("chunk %d is empty", i+1)
		}
		first := nextLines[0]
		if !strings.Contains(chunks[i].Text, first) {
			t.Errorf("chunk %d head %q not found in chunk %d (no overlap carried)", i+1, first, i)
		}
	}
}

func TestChunkDocument_DropsSubMinChunks(t *testing.T) {
	doc := rulesDoc("tiny")
	chunks := ChunkDocument(doc, Config{ChunkSize: 2000, ChunkOverlap: 200, MinChunk: 100, PageWindow: 5})
	if len(chunks) != 0 {
		t.Errorf("expected sub-min document to produce 0 chunks, got %d", len(chunks))
	}
}

func TestChunkDocument_WindowsSplitPageGroups(t *testing.T) {
	pages := make([]string, 7)
	for i := range pages {
		pages[i] = strings.Repeat(fmt.Sprintf("page %d content. ", i+1), 10)
	}
	doc := rulesDoc(pages...)
	cfg := Config{ChunkSize: 100000, ChunkOverlap: 200, MinChunk: 50, PageWindow: 5}

	chunks := ChunkDocument(doc, cfg)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks (two 5-page windows), got %d", len(chunks))
	}
	if chunks[0].Metadata.PageStart != 1 || chunks[0].Metadata.PageEnd != 5 {
		t.Errorf("window 1: expected pages 1-5, got %d-%d", chunks[0].Metadata.PageStart, chunks[0].Metadata.PageEnd)
	}
	if chunks[1].Metadata.PageStart != 6 || chunks[1].Metadata.PageEnd != 7 {
		t.Errorf("window 2: expected pages 6-7, got %d-%d", chunks[1].Metadata.PageStart, chunks[1].Metadata.PageEnd)
	}
}

func TestChunkDocument_DefaultConfigFallback(t *testing.T) {
	doc := rulesDoc(strings.Repeat("rule text content here. ", 20))
	chunks := ChunkDocument(doc, Config{})
	if len(chunks) != 1 {
		t.Errorf("expected 1 chunk with zero config (defaults applied), got %d", len(chunks))
	}
}

func TestIsSectionBoundary(t *testing.T) {
	cases := []struct {
		line string
		want bool
	}{
		{"D 4.3.3 Skidpad", true},
		{"AT 8.2.1 Autonomous braking", true},
		{"4.3 SCORING", true},
		{"TECHNICAL INSPECTION", true},
		{"the car must comply with the rules", false},
		{"", false},
	}
	for _, c := range cases {
		if got := isSectionBoundary(c.line); got != c.want {
			t.Errorf("isSectionBoundary(%q): expected %v, got %v", c.line, c.want, got)
		}
	}
}

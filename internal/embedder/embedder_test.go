package embedder

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/dgallion1/rulerag/internal/document"
)

// fakeEmbedder derives a deterministic vector from text length so batch
// ordering is observable.
type fakeEmbedder struct {
	calls    atomic.Int64
	failText string
}

func (f *fakeEmbedder) EmbedText(_ context.Context, text, _ string) ([]float32, error) {
	f.calls.Add(1)
	if f.failText != "" && text == f.failText {
		return nil, fmt.Errorf("permanent failure")
	}
	return []float32{float32(len(text)), 1, 0}, nil
}

func (f *fakeEmbedder) Model() string { return "fake-embedding-001" }

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestCosineSimilarity(t *testing.T) {
	v := []float32{0.3, -1.2, 4.5}
	neg := []float32{-0.3, 1.2, -4.5}
	zero := []float32{0, 0, 0}

	if got := CosineSimilarity(v, v); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("cos(v,v): expected 1.0, got %f", got)
	}
	if got := CosineSimilarity(v, neg); math.Abs(got+1.0) > 1e-9 {
		t.Errorf("cos(v,-v): expected -1.0, got %f", got)
	}
	if got := CosineSimilarity(v, zero); got != 0.0 {
		t.Errorf("cos(v,0): expected 0.0, got %f", got)
	}
	if got := CosineSimilarity([]float32{1, 0}, []float32{0, 1}); math.Abs(got) > 1e-9 {
		t.Errorf("cos(orthogonal): expected 0.0, got %f", got)
	}
}

func TestEmbedChunks_PreservesInputOrder(t *testing.T) {
	var chunks []document.Chunk
	for i := 0; i < 20; i++ {
		text := ""
		for j := 0; j <= i; j++ {
			text += "x"
		}
		chunks = append(chunks, document.Chunk{
			ChunkID: fmt.Sprintf("FS_Rules_%d", i),
			Text:    text,
		})
	}

	fake := &fakeEmbedder{}
	embedded, err := EmbedChunks(context.Background(), fake, chunks, 8, testLogger())
	if err != nil {
		t.Fatalf("embed failed: %v", err)
	}
	if len(embedded) != len(chunks) {
		t.Fatalf("expected %d embedded chunks, got %d", len(chunks), len(embedded))
	}
	for i, ec := range embedded {
		if ec.ChunkID != chunks[i].ChunkID {
			t.Errorf("position %d: expected %s, got %s", i, chunks[i].ChunkID, ec.ChunkID)
		}
		// Vector encodes text length, which encodes the input index.
		if int(ec.Embedding[0]) != i+1 {
			t.Errorf("position %d: embedding out of order (len %f)", i, ec.Embedding[0])
		}
		if ec.EmbeddingModel != "fake-embedding-001" {
			t.Errorf("position %d: model not recorded", i)
		}
	}
}

func TestEmbedChunks_FailureFailsBatch(t *testing.T) {
	chunks := []document.Chunk{
		{ChunkID: "FS_Rules_0", Text: "ok"},
		{ChunkID: "FS_Rules_1", Text: "bad"},
	}
	fake := &fakeEmbedder{failText: "bad"}

	if _, err := EmbedChunks(context.Background(), fake, chunks, 2, testLogger()); err == nil {
		t.Fatal("expected batch to fail when one chunk fails")
	}
}

func TestSaveLoadEmbeddings_RoundTrip(t *testing.T) {
	embedded := []document.EmbeddedChunk{
		{
			ChunkID:   "FSA_Handbook_0",
			Text:      "D 4.3.3 Skidpad scoring",
			Embedding: []float32{0.1, 0.2, 0.3},
			Metadata: document.ChunkMetadata{
				DocumentType: document.TypeHandbook,
				Filename:     "FSA-Handbook.pdf",
				PageStart:    1,
				PageEnd:      5,
				RuleIDs:      []document.RuleID{{Prefix: "D", Number: "4.3.3"}},
			},
			EmbeddingModel: "text-embedding-004",
		},
		{
			ChunkID:        "FS_Rules_0",
			Text:           "acceleration procedure",
			Embedding:      []float32{-0.4, 0.5, 0.6},
			Metadata:       document.ChunkMetadata{DocumentType: document.TypeRules, ChunkNumber: 0},
			EmbeddingModel: "text-embedding-004",
		},
	}

	path := filepath.Join(t.TempDir(), "embeddings", "test.json")
	if err := SaveEmbeddings(embedded, path); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := LoadEmbeddings(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !reflect.DeepEqual(embedded, loaded) {
		t.Errorf("round trip mismatch:\nsaved:  %+v\nloaded: %+v", embedded, loaded)
	}
}

func TestLoadEmbeddings_MalformedRecordFatal(t *testing.T) {
	embedded := []document.EmbeddedChunk{
		{ChunkID: "FS_Rules_0", Text: "x", EmbeddingModel: "text-embedding-004"}, // no embedding
	}
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := SaveEmbeddings(embedded, path); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := LoadEmbeddings(path); err == nil {
		t.Error("expected load to fail on record without embedding")
	}
}

func TestSaveLoadChunks_RoundTrip(t *testing.T) {
	chunks := []document.Chunk{
		document.NewChunk("FS_Rules_0", "D 4.3.3 skidpad text", document.ChunkMetadata{
			DocumentType: document.TypeRules,
			Filename:     "FS-Rules.pdf",
			PageStart:    1,
			PageEnd:      5,
		}),
	}
	path := filepath.Join(t.TempDir(), "chunks.json")
	if err := SaveChunks(chunks, path); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := LoadChunks(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !reflect.DeepEqual(chunks, loaded) {
		t.Errorf("round trip mismatch:\nsaved:  %+v\nloaded: %+v", chunks, loaded)
	}
}

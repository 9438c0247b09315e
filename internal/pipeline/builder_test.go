package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgallion1/rulerag/internal/config"
	"github.com/dgallion1/rulerag/internal/vectorstore"
)

// fixedEmbedder returns a deterministic vector derived from text length.
type fixedEmbedder struct{}

func (fixedEmbedder) EmbedText(_ context.Context, text, _ string) ([]float32, error) {
	return []float32{float32(len(text)), 1, 0.5}, nil
}

func (fixedEmbedder) Model() string { return "text-embedding-004" }

func writeRulesFixture(t *testing.T, dir string) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("D 4.3.3 Skidpad scoring\n")
	for i := 0; i < 30; i++ {
		b.WriteString("The skidpad event measures steady-state cornering on a figure-8 course.\n")
	}
	path := filepath.Join(dir, "FS-Rules_2025.txt")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func testBuilder(t *testing.T, dataDir string) *Builder {
	t.Helper()
	cfg := config.Load()
	cfg.DataDir = dataDir
	cfg.EmbedConcurrency = 2
	return NewBuilder(cfg, fixedEmbedder{}, slog.New(slog.DiscardHandler))
}

func TestBuild_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	path := writeRulesFixture(t, dir)
	dataDir := filepath.Join(dir, "index")

	job := NewJob()
	store, err := testBuilder(t, dataDir).Build(context.Background(), []string{path}, job)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if store.Len() == 0 {
		t.Fatal("expected indexed chunks")
	}

	snap := job.Snapshot()
	if snap.Progress.DocumentsProcessed != 1 || snap.Progress.TotalChunks == 0 {
		t.Errorf("unexpected progress: %+v", snap.Progress)
	}

	// Build artifacts and snapshot must exist on disk.
	if _, err := os.Stat(filepath.Join(dataDir, "chunks_FS-Rules_2025.json")); err != nil {
		t.Errorf("chunks artifact missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dataDir, "embeddings_FS-Rules_2025.json")); err != nil {
		t.Errorf("embeddings artifact missing: %v", err)
	}
	loaded, err := vectorstore.Load(dataDir)
	if err != nil {
		t.Fatalf("snapshot not loadable: %v", err)
	}
	if loaded.Len() != store.Len() {
		t.Errorf("snapshot chunk count %d, built %d", loaded.Len(), store.Len())
	}
}

func TestBuild_MissingDocumentFatal(t *testing.T) {
	dir := t.TempDir()
	job := NewJob()
	_, err := testBuilder(t, filepath.Join(dir, "index")).Build(
		context.Background(), []string{filepath.Join(dir, "absent.pdf")}, job)
	if err == nil {
		t.Fatal("expected error for missing document")
	}
	snap := job.Snapshot()
	if len(snap.Progress.Errors) == 0 {
		t.Error("expected the failure recorded on the job")
	}
}

func TestBuild_NoPaths(t *testing.T) {
	if _, err := testBuilder(t, t.TempDir()).Build(context.Background(), nil, nil); err == nil {
		t.Error("expected error for empty document list")
	}
}

package parser

import (
	"strings"
	"testing"

	"github.com/dgallion1/rulerag/internal/document"
)

func TestTextParser_SinglePage(t *testing.T) {
	input := "D 4.3.3 Skidpad scoring\nThe score is computed from the corrected time.\n"
	p := &TextParser{}

	doc, err := p.Parse(strings.NewReader(input), "FS-Rules-excerpt.txt")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if doc.Type != document.TypeRules {
		t.Errorf("expected FS_Rules type, got %s", doc.Type)
	}
	if len(doc.Pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(doc.Pages))
	}
	if doc.Pages[0].Number != 1 {
		t.Errorf("expected page number 1, got %d", doc.Pages[0].Number)
	}
	if !strings.Contains(doc.Pages[0].Text, "Skidpad scoring") {
		t.Errorf("page text missing content: %q", doc.Pages[0].Text)
	}
}

func TestTextParser_FormFeedPages(t *testing.T) {
	input := "page one text\n\fpage two text\n\fpage three text\n"
	p := &TextParser{}

	doc, err := p.Parse(strings.NewReader(input), "notes.txt")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(doc.Pages) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(doc.Pages))
	}
	for i, page := range doc.Pages {
		if page.Number != i+1 {
			t.Errorf("page %d: expected number %d, got %d", i, i+1, page.Number)
		}
	}
	if doc.Pages[1].Text != "page two text" {
		t.Errorf("unexpected page 2 text: %q", doc.Pages[1].Text)
	}
	if doc.Type != document.TypeUnknown {
		t.Errorf("expected Unknown type, got %s", doc.Type)
	}
}

func TestForFile_UnsupportedExtension(t *testing.T) {
	if _, err := ForFile("scores.xlsx"); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if IsSupportedExtension("scores.xlsx") {
		t.Error("xlsx should not be supported")
	}
	if !IsSupportedExtension("rules.pdf") {
		t.Error("pdf should be supported")
	}
}

func TestProcessFile_Missing(t *testing.T) {
	if _, err := ProcessFile("/nonexistent/FS-Rules.pdf"); err == nil {
		t.Error("expected error for missing file")
	}
}

package parser

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/dgallion1/rulerag/internal/document"
	pdflib "github.com/ledongthuc/pdf"
)

// PDFParser handles PDF rulebooks. It runs pdftotext with layout
// preservation first; if that fails it falls back to in-process plain-text
// extraction without failing the document.
type PDFParser struct{}

func (p *PDFParser) Parse(r io.Reader, filename string) (*document.Document, error) {
	// Both extraction paths need a file on disk, so spool to a temp file.
	tmp, err := os.CreateTemp("", "rulerag-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	pages, err := extractLayout(tmpPath)
	if err != nil {
		pages, err = extractPlainText(tmpPath)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	doc := newDocument(filename)
	doc.Pages = pages
	return doc, nil
}

// extractLayout runs pdftotext -layout, which keeps column alignment of
// scoring tables intact. Pages arrive separated by form feeds.
func extractLayout(path string) ([]document.Page, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}

	var pages []document.Page
	for i, text := range strings.Split(string(out), "\f") {
		pages = append(pages, document.Page{
			Number: i + 1,
			Text:   strings.TrimRight(text, "\n"),
		})
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("pdftotext: no pages extracted")
	}
	return pages, nil
}

// extractPlainText is the in-process fallback. A page that fails to decode
// yields empty text rather than failing the whole document.
func extractPlainText(path string) ([]document.Page, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	numPages := reader.NumPage()
	pages := make([]document.Page, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, document.Page{Number: i})
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			text = ""
		}
		pages = append(pages, document.Page{
			Number: i,
			Text:   text,
			Tables: extractRowTables(page),
		})
	}
	return pages, nil
}

// extractRowTables pulls row-aligned text runs out of a page. Rows with a
// single run are prose, not tabular data, and are skipped.
func extractRowTables(page pdflib.Page) [][]string {
	rows, err := page.GetTextByRow()
	if err != nil {
		return nil
	}

	var tables [][]string
	for _, row := range rows {
		if len(row.Content) < 2 {
			continue
		}
		cells := make([]string, 0, len(row.Content))
		for _, t := range row.Content {
			s := strings.TrimSpace(t.S)
			if s != "" {
				cells = append(cells, s)
			}
		}
		if len(cells) >= 2 {
			tables = append(tables, cells)
		}
	}
	return tables
}

package parser

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/rulerag/internal/document"
)

// Parser extracts a paged Document from raw document bytes.
type Parser interface {
	Parse(r io.Reader, filename string) (*document.Document, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".md":   true,
	".html": true,
	".htm":  true,
	".txt":  true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return &PDFParser{}, nil
	case ".docx":
		return &DOCXParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".txt":
		return &TextParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// ProcessFile extracts a document from a file on disk. A missing file is
// fatal before any processing begins.
func ProcessFile(path string) (*document.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	filename := filepath.Base(path)
	p, err := ForFile(filename)
	if err != nil {
		return nil, err
	}
	return p.Parse(f, filename)
}

// newDocument builds an empty document with its type classified from the
// filename.
func newDocument(filename string) *document.Document {
	return &document.Document{
		Filename: filename,
		Type:     document.ClassifyFilename(filename),
	}
}

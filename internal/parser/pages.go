package parser

import (
	"strings"

	"github.com/dgallion1/rulerag/internal/document"
)

// pageBuilder accumulates heading-delimited sections into synthetic pages
// for formats that have no fixed pagination (docx, markdown, html).
type pageBuilder struct {
	done    []document.Page
	current strings.Builder
	started bool
}

func newPageBuilder() *pageBuilder {
	return &pageBuilder{}
}

// startPage flushes the current page and opens a new one titled by the
// heading line.
func (b *pageBuilder) startPage(heading string) {
	b.flush()
	b.started = true
	b.current.WriteString(heading)
}

// addText appends a paragraph to the current page, opening an untitled page
// if none is in progress.
func (b *pageBuilder) addText(text string) {
	if b.current.Len() > 0 {
		b.current.WriteString("\n\n")
	}
	b.started = true
	b.current.WriteString(text)
}

func (b *pageBuilder) flush() {
	if !b.started {
		return
	}
	text := strings.TrimSpace(b.current.String())
	b.current.Reset()
	b.started = false
	if text == "" {
		return
	}
	b.done = append(b.done, document.Page{
		Number: len(b.done) + 1,
		Text:   text,
	})
}

// pages returns all accumulated pages, flushing any open one.
func (b *pageBuilder) pages() []document.Page {
	b.flush()
	return b.done
}

package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/rulerag/internal/document"
)

// TextParser handles plain text exports. Form feeds delimit pages when
// present; otherwise the whole file is a single page.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*document.Document, error) {
	var buf strings.Builder
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		buf.WriteString(scanner.Text())
		buf.WriteString("\n")
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	doc := newDocument(filename)
	for i, text := range strings.Split(buf.String(), "\f") {
		doc.Pages = append(doc.Pages, document.Page{
			Number: i + 1,
			Text:   strings.TrimRight(text, "\n"),
		})
	}
	return doc, nil
}

package document

import "strings"

// Type classifies which rulebook a document came from. The handbook takes
// precedence over the rules document when both cover the same topic.
type Type string

const (
	TypeHandbook Type = "FSA_Handbook"
	TypeRules    Type = "FS_Rules"
	TypeUnknown  Type = "Unknown"
)

// Page is a single extracted source page. Text may be empty when the page
// has no extractable content.
type Page struct {
	Number int        `json:"page_number"`
	Text   string     `json:"text"`
	Tables [][]string `json:"tables,omitempty"` // row-oriented tabular data, if any
}

// Document is an ordered sequence of extracted pages.
type Document struct {
	Filename string `json:"filename"`
	Type     Type   `json:"document_type"`
	Pages    []Page `json:"pages"`
}

// TotalPages returns the page count.
func (d *Document) TotalPages() int { return len(d.Pages) }

// ClassifyFilename infers the document type from filename tokens.
// Unmatched files classify as Unknown and are still processed.
func ClassifyFilename(filename string) Type {
	switch {
	case strings.Contains(filename, "FSA") || strings.Contains(filename, "Handbook"):
		return TypeHandbook
	case strings.Contains(filename, "FS-Rules") || strings.Contains(filename, "Rules"):
		return TypeRules
	default:
		return TypeUnknown
	}
}

package chunker

import (
	"regexp"
	"strings"
)

// Section boundary heuristics. An all-caps body line can false-positive;
// the chunker treats a match only as a preferred cut point, never as a
// strict parse.
var sectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[A-Z]{1,2}\s*\d+(?:\.\d+)*`), // rule IDs: D 4.3.3, AT 8.2.1
	regexp.MustCompile(`^\d+\.\d+\s+[A-Z]`),           // numbered sections: 4.3 SCORING
	regexp.MustCompile(`^[A-Z][A-Z\s]{5,}$`),          // ALL CAPS headings
}

// isSectionBoundary reports whether a line looks like the start of a new
// rule or section.
func isSectionBoundary(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	for _, pattern := range sectionPatterns {
		if pattern.MatchString(line) {
			return true
		}
	}
	return false
}

package document

import (
	"regexp"
	"sort"
	"strings"
)

// RuleID is a structured citation token referencing a rulebook clause,
// e.g. "D 4.3.3" or "AT 8.2.1".
type RuleID struct {
	Prefix string `json:"prefix"` // one or two letter section prefix
	Number string `json:"number"` // dotted numeric path, e.g. "4.3.3"
}

// ruleIDPattern matches rule citations such as "D 4.3.3" or "AT 8.2".
// The prefix is one or two uppercase letters followed by a dotted number
// with at least two levels.
var ruleIDPattern = regexp.MustCompile(`([A-Z]{1,2})\s*(\d+(?:\.\d+)+)`)

// String renders the canonical display form, e.g. "D 4.3.3".
func (r RuleID) String() string {
	return r.Prefix + " " + r.Number
}

// Normalize renders the whitespace-free uppercase form used for exact
// keyword matching, e.g. "D4.3.3".
func (r RuleID) Normalize() string {
	return strings.ToUpper(r.Prefix + r.Number)
}

// NormalizeRuleID strips all whitespace from a raw rule citation and
// uppercases it, so "d 4.3.3" and "D4.3.3" compare equal.
func NormalizeRuleID(raw string) string {
	return strings.ToUpper(strings.Join(strings.Fields(raw), ""))
}

// ExtractRuleIDs scans text for rule citations and returns them
// de-duplicated in a stable order.
func ExtractRuleIDs(text string) []RuleID {
	matches := ruleIDPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(matches))
	var ids []RuleID
	for _, m := range matches {
		id := RuleID{Prefix: m[1], Number: m[2]}
		key := id.Normalize()
		if seen[key] {
			continue
		}
		seen[key] = true
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool {
		if ids[i].Prefix != ids[j].Prefix {
			return ids[i].Prefix < ids[j].Prefix
		}
		return ids[i].Number < ids[j].Number
	})
	return ids
}

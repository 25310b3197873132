// Package clause segments extracted document text into analyzable units.
package clause

import (
	"regexp"
	"strings"
)

// Boundary markers for numbered or lettered clause openings at the start
// of a line: "1.", "2)", "(a)", "Section 4", "ARTICLE IX", etc.
var reClauseStart = regexp.MustCompile(`(?m)^\s*(?:\d+[.)]|\([a-z]\)|\([ivx]+\)|(?i:section|article|clause)\s+[\dIVX]+)`)

// minClauseRunes filters fragments too short to analyze on their own;
// they are merged into the preceding clause.
const minClauseRunes = 20

// Split segments normalized text into ordered clause units. Boundaries
// are numbered clause openings and blank-line paragraph breaks. When
// nothing splits, the whole text is a single clause.
func Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var parts []string
	for _, block := range strings.Split(text, "\n\n") {
		parts = append(parts, splitBlock(block)...)
	}

	// Merge short fragments into their predecessor.
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if len([]rune(p)) < minClauseRunes && len(out) > 0 {
			out[len(out)-1] += "\n" + p
			continue
		}
		out = append(out, p)
	}

	if len(out) == 0 {
		return []string{text}
	}
	return out
}

// splitBlock cuts one paragraph block at numbered clause openings.
func splitBlock(block string) []string {
	locs := reClauseStart.FindAllStringIndex(block, -1)
	if len(locs) < 2 {
		return []string{block}
	}
	var parts []string
	if locs[0][0] > 0 {
		parts = append(parts, block[:locs[0][0]])
	}
	for i, loc := range locs {
		end := len(block)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		parts = append(parts, block[loc[0]:end])
	}
	return parts
}

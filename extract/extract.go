// Package extract filters markdown text down to candidate ledger lines.
//
// A candidate line is a markdown list item that begins with an ISO 8601 date
// and contains the costflow flow delimiter (>) somewhere after it:
//
//	- 2023-04-01 Coffee Shop > food: 150
//	* 2023-04-02 Salary > income: -5000 | bank
//
// Extraction is a pure filter: it performs no validation beyond the line
// shape above, drops everything else silently, and preserves input order.
// Parsing the surviving lines is the costflow package's job.
package extract

import (
	"regexp"
	"strings"
)

// candidateRe matches a list marker, whitespace, and a literal YYYY-MM-DD
// date token. Whether the date is a real calendar date is decided by the
// parser, not here.
var candidateRe = regexp.MustCompile(`^([-*])\s+(\d{4}-\d{2}-\d{2})\b`)

// Extract returns the candidate ledger lines found in markdown, stripped of
// their list markers and surrounding whitespace, in original file order.
func Extract(markdown string) []string {
	var candidates []string

	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)

		m := candidateRe.FindStringIndex(trimmed)
		if m == nil {
			continue
		}

		// The flow delimiter must appear after the date token.
		if !strings.Contains(trimmed[m[1]:], ">") {
			continue
		}

		candidates = append(candidates, strings.TrimSpace(trimmed[1:]))
	}

	return candidates
}

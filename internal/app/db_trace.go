package app

import (
	"regexp"
	"strings"
)

// Span attributes get the collapsed query only; anything longer is cut
// to keep trace payloads small.
const maxTracedQueryLength = 512

var whitespaceRun = regexp.MustCompile(`\s+`)

func formatDBQueryForTrace(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	flat := whitespaceRun.ReplaceAllString(query, " ")
	if len(flat) > maxTracedQueryLength {
		return flat[:maxTracedQueryLength] + "..."
	}

	return flat
}

package app

import "strings"

// Keeps span attributes readable in the trace UI without dropping the
// interesting part of a long INSERT.
const tracedQueryLimit = 512

// formatDBQueryForTrace flattens a multi-line SQL statement into a single
// whitespace-normalized line and truncates it for span attributes.
func formatDBQueryForTrace(query string) string {
	flat := strings.Join(strings.Fields(query), " ")
	if len(flat) <= tracedQueryLimit {
		return flat
	}
	return flat[:tracedQueryLimit] + "..."
}

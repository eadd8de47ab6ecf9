// Package normalize implements the deterministic surface-string cleaner
// that turns a concept's surface name into an identifier-safe node
// label. Grounded on the original clean_output_name() in
// graph_creation/database_operations.py.
package normalize

import "regexp"

// punctuationRun matches any run of whitespace or punctuation that is
// not an underscore; each run collapses to a single underscore.
var punctuationRun = regexp.MustCompile(`[|,':;()\[\]{}<>!@#$%^&*+=~` + "`" + `"\\/?.\s-]+`)

var underscoreRun = regexp.MustCompile(`_+`)

// Clean produces an identifier-safe label from a surface name. It is
// case-preserving; only punctuation and whitespace are folded.
func Clean(name string) string {
	if name == "" {
		return "unknown_node"
	}
	cleaned := punctuationRun.ReplaceAllString(name, "_")
	cleaned = underscoreRun.ReplaceAllString(cleaned, "_")
	cleaned = trimUnderscores(cleaned)
	if cleaned == "" {
		return "unknown_node"
	}
	return cleaned
}

func trimUnderscores(s string) string {
	start, end := 0, len(s)
	for start < end && s[start] == '_' {
		start++
	}
	for end > start && s[end-1] == '_' {
		end--
	}
	return s[start:end]
}

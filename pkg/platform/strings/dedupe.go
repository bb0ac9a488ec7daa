// Package strings normalizes the free-text values the service compares:
// person names, ranks, duty titles and list-valued configuration.
package strings

import (
	"strings"
)

// DedupeAndTrim trims each element and drops blanks and exact duplicates,
// keeping first-seen order. Used for comma-separated config lists such as Kafka brokers.
//
// Example:
//
//	DedupeAndTrim([]string{" broker-1:9092", "broker-2:9092", "broker-1:9092", ""})
//	// Returns: []string{"broker-1:9092", "broker-2:9092"}
func DedupeAndTrim(values []string) []string {
	return dedupeBy(values, strings.TrimSpace)
}

func dedupeBy(values []string, clean func(string) string) []string {
	if len(values) == 0 {
		return values
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		c := clean(v)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

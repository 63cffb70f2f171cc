package intake

import "strings"

// Segment splits a raw utterance into comma-delimited fragments. Fragments are
// trimmed, empty ones dropped, and order is preserved.
func Segment(text string) []string {
	parts := strings.Split(text, ",")
	fragments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			fragments = append(fragments, p)
		}
	}
	return fragments
}

package insider

import "strings"

// Sign derives a trade direction from free-form transaction-type text:
// +1 for buys, -1 for sells, 0 for anything else. The matching is
// heuristic (substring and prefix) and kept behind this one function so
// alternate classification rules never touch the aggregation logic.
func Sign(typeText string) int {
	t := strings.ToLower(strings.TrimSpace(typeText))
	if t == "" {
		return 0
	}
	if strings.Contains(t, "purchase") || strings.HasPrefix(t, "p") {
		return 1
	}
	if strings.Contains(t, "sale") || strings.HasPrefix(t, "s") {
		return -1
	}
	return 0
}

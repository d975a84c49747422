package sanitizer

import "slices"

// NormalizeSlice applies s to every item, dropping empty results and
// repeats while keeping first-seen order.
func NormalizeSlice(items []string, s Strategy) []string {
	result := make([]string, 0, len(items))
	for _, item := range items {
		normalized := s(item)
		if normalized == "" || slices.Contains(result, normalized) {
			continue
		}
		result = append(result, normalized)
	}
	return result
}

// NormalizeStatuses cleans repeated status filters from a query string.
func NormalizeStatuses(statuses []string) []string {
	return NormalizeSlice(statuses, Status.Apply)
}

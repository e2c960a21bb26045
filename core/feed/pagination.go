// ABOUTME: Pagination utilities for feed items
// ABOUTME: Offset-based paging over an already parsed feed

package feed

// DefaultPageSize is used when a caller asks for a non-positive limit
const DefaultPageSize = 10

// Page returns items[skip:skip+limit], clamped to the slice bounds
func Page[T any](items []T, skip, limit int) []T {
	if skip < 0 {
		skip = 0
	}
	if limit < 1 {
		limit = DefaultPageSize
	}

	if skip >= len(items) {
		return []T{}
	}

	end := skip + limit
	if end > len(items) {
		end = len(items)
	}
	return items[skip:end]
}

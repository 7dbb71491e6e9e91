package utils

// TotalPages computes the number of pages needed to hold matching records.
// Zero matches still count as one page so pagination controls always have a
// page to render.
func TotalPages(matching int64, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	pages := int((matching + int64(pageSize) - 1) / int64(pageSize))
	if pages < 1 {
		return 1
	}
	return pages
}

// Paginate returns the 1-indexed page slice of items. A page past the end
// yields an empty slice, never an error.
func Paginate[T any](items []T, page, pageSize int) []T {
	if page < 1 || pageSize < 1 {
		return []T{}
	}
	// (page-1)*pageSize wraps around for huge page values; any page past the
	// end is the same empty page, so bound the page before multiplying.
	if page-1 > len(items)/pageSize {
		return []T{}
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) || end < start {
		end = len(items)
	}
	return items[start:end]
}

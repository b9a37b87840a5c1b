package utils

// PageBounds returns the [start, end) slice bounds of page within total items.
// A non-positive limit selects everything.
func PageBounds(total, page, limit int) (int, int) {
	if limit <= 0 {
		return 0, total
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return start, end
}

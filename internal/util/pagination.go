package util

import "strconv"

const MaxPageSize = 100

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// ZeroBasedPage converts the one-based page number users see into the
// zero-based index the API expects.
func ZeroBasedPage(page int) int {
	if page < 1 {
		return 0
	}
	return page - 1
}

// ClampPageSize returns 0 for non-positive sizes so that callers fall back to
// their own default.
func ClampPageSize(size int) int {
	switch {
	case size <= 0:
		return 0
	case size > MaxPageSize:
		return MaxPageSize
	default:
		return size
	}
}

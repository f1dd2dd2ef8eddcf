package utils

import (
	"math"
	"strings"
)

// PageOffset returns the row offset for a 1-based page.
func PageOffset(page, perPage int) int {
	if page < 1 || perPage < 1 {
		return 0
	}
	return (page - 1) * perPage
}

func TotalPages(total int64, perPage int) int {
	if perPage < 1 || total <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(perPage)))
}

// NormalizeOrderDir returns "asc" or "desc"; anything else falls back to "desc".
func NormalizeOrderDir(dir string) string {
	if strings.EqualFold(strings.TrimSpace(dir), "asc") {
		return "asc"
	}
	return "desc"
}

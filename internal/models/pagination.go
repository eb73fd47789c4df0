package models

// Page size bounds applied to every list endpoint. Requests outside the
// bounds are clamped, not rejected.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 500
)

// Pagination describes one page window of a list response.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// NewPagination computes the page count for a clamped window.
func NewPagination(page, limit int, total int64) Pagination {
	page, limit = ClampWindow(page, limit)
	pages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// ClampWindow bounds page to >=1 and limit to [1, MaxPageLimit]. A zero
// limit falls back to the default page size.
func ClampWindow(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}

package v1

import (
	"net/http"
	"strconv"
)

// DefaultPageSize is the default number of items per page.
const DefaultPageSize = 20

// MaxPageSize is the maximum allowed page size.
const MaxPageSize = 100

// PaginationParams holds pagination parameters parsed from query strings.
type PaginationParams struct {
	page     int
	pageSize int
}

// NewPaginationParams creates pagination params with defaults.
func NewPaginationParams() PaginationParams {
	return PaginationParams{
		page:     1,
		pageSize: DefaultPageSize,
	}
}

// ParsePagination parses page and page_size (or its alias limit) from the
// query string. Invalid values fall back to the defaults; page_size is
// capped at MaxPageSize.
func ParsePagination(r *http.Request) PaginationParams {
	params := NewPaginationParams()
	q := r.URL.Query()

	if page, err := strconv.Atoi(q.Get("page")); err == nil && page >= 1 {
		params.page = page
	}

	sizeStr := q.Get("page_size")
	if sizeStr == "" {
		sizeStr = q.Get("limit")
	}
	if size, err := strconv.Atoi(sizeStr); err == nil && size >= 1 {
		params.pageSize = min(size, MaxPageSize)
	}

	return params
}

// Page returns the page number (1-indexed).
func (p PaginationParams) Page() int { return p.page }

// PageSize returns the number of items per page.
func (p PaginationParams) PageSize() int { return p.pageSize }

// Limit returns the query limit.
func (p PaginationParams) Limit() int { return p.pageSize }

// Offset returns the number of items to skip.
func (p PaginationParams) Offset() int { return (p.page - 1) * p.pageSize }

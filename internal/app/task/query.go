package task

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// MaxPageSize caps the per-page window regardless of the requested limit.
const MaxPageSize = 100

// ListQuery is the parsed form of the task-list query string.
type ListQuery struct {
	// Page is 1-based. Values below 1 are clamped to 1.
	Page int

	// Limit is the page window size, clamped to [1, MaxPageSize].
	Limit int

	// Search is the trimmed case-insensitive substring filter. Empty matches all.
	Search string
}

// Pagination is the derived envelope returned alongside every task page.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalTasks  int  `json:"totalTasks"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// ParseListQuery builds a ListQuery from raw URL query values. Unparseable or
// out-of-range page/limit values fall back to their defaults.
func ParseListQuery(values url.Values, defaultLimit int) ListQuery {
	q := ListQuery{
		Page:   1,
		Limit:  defaultLimit,
		Search: strings.TrimSpace(values.Get("search")),
	}

	if pageStr := values.Get("page"); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page > 1 {
			q.Page = page
		}
	}

	if limitStr := values.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			q.Limit = limit
		}
	}

	if q.Limit < 1 {
		q.Limit = 1
	}
	if q.Limit > MaxPageSize {
		q.Limit = MaxPageSize
	}

	return q
}

// Offset returns the number of rows to skip for the query's page window.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// NewPagination derives the pagination envelope from the current page, the page
// window size, and the total number of matching tasks. limit must be positive.
func NewPagination(page, limit, total int) (Pagination, error) {
	if limit <= 0 {
		return Pagination{}, fmt.Errorf("pagination: non-positive limit %d", limit)
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalTasks:  total,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}, nil
}

// searchPattern turns a raw search term into an ILIKE substring pattern,
// escaping the ILIKE metacharacters so they match literally.
func searchPattern(search string) string {
	escaper := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + escaper.Replace(search) + "%"
}

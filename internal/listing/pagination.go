// Package listing carries pagination metadata for repository list queries.
package listing

// Page describes one page of items together with the repository's total count.
type Page[T any] struct {
	Items    []T
	Page     int // page number, starting at 1
	PageSize int
	HasNext  bool
	HasPrev  bool
	Total    int64 // total matching rows, not just this page
}

const defaultPageSize = 20

// Window converts a page request into the limit/offset handed to a
// repository. Out-of-range values fall back to defaults.
func Window(page, pageSize int) (limit, offset int) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if page <= 0 {
		page = 1
	}
	return pageSize, (page - 1) * pageSize
}

// NewPage wraps a repository result in page metadata.
func NewPage[T any](items []T, page, pageSize int, total int64) Page[T] {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if page <= 0 {
		page = 1
	}
	end := int64(page) * int64(pageSize)
	return Page[T]{
		Items:    items,
		Page:     page,
		PageSize: pageSize,
		HasNext:  end < total,
		HasPrev:  page > 1,
		Total:    total,
	}
}

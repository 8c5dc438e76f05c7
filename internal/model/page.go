package model

import "math"

// Page is a bounded, 1-indexed slice of a collection plus pagination metadata
type Page[T any] struct {
	Items       []T
	CurrentPage int
	PageSize    int
	TotalCount  int
	TotalPages  int
}

// NewPage builds a page and derives TotalPages from the count and size
func NewPage[T any](items []T, currentPage, pageSize, totalCount int) *Page[T] {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (totalCount + pageSize - 1) / pageSize
	}
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items:       items,
		CurrentPage: currentPage,
		PageSize:    pageSize,
		TotalCount:  totalCount,
		TotalPages:  totalPages,
	}
}

// HasPrevious returns true if there is a page before this one
func (p *Page[T]) HasPrevious() bool {
	return p.CurrentPage > 1
}

// HasNext returns true if there is a page after this one
func (p *Page[T]) HasNext() bool {
	return p.CurrentPage < p.TotalPages
}

// PageOffset returns the zero-based index of the first item on the page.
// Both arguments must be positive. ok is false when the end of the page does
// not fit in an int, in which case the page lies past the end of any collection.
func PageOffset(pageNumber, pageSize int) (offset int, ok bool) {
	if pageNumber-1 > (math.MaxInt-pageSize)/pageSize {
		return 0, false
	}
	return (pageNumber - 1) * pageSize, true
}

package models

// Page is the normalized paginated list shape. Endpoints that return a bare
// array are folded into a single page by the entity layer, so every list
// consumer sees one shape.
//
// Invariants: TotalPages == ceil(TotalCount/pageSize) for a positive page
// size, and 1 <= CurrentPage <= max(TotalPages, 1).
type Page[T any] struct {
	Items       []T `json:"data"`
	TotalCount  int `json:"count"`
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
}

// SinglePage wraps items that arrived without pagination metadata.
func SinglePage[T any](items []T) Page[T] {
	return Page[T]{
		Items:       items,
		TotalCount:  len(items),
		CurrentPage: 1,
		TotalPages:  1,
	}
}

// PageCount computes the number of pages for a total at the given page size.
// A total of zero yields zero pages; callers clamp displayed pages to >= 1.
func PageCount(totalCount, pageSize int) int {
	if pageSize <= 0 || totalCount <= 0 {
		return 0
	}
	return (totalCount + pageSize - 1) / pageSize
}

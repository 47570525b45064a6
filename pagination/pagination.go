// Package pagination slices an ordered collection into fixed-size pages.
package pagination

import "strconv"

// Page is a single slice of an ordered collection along with the metadata
// a client needs to render pager controls.
type Page[T any] struct {
	Items      []T  `json:"-"`
	Number     int  `json:"number"`
	TotalPages int  `json:"total_pages"`
	TotalItems int  `json:"total_items"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// ParsePageParam turns a raw ?page= value into a page number. A missing or
// non-numeric value means page 1. Out-of-range numbers are left as-is;
// Paginate clamps them to the last valid page.
func ParsePageParam(raw string) int {
	if raw == "" {
		return 1
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	return n
}

// Paginate slices items, which must already be in the caller's canonical
// order, into pages of pageSize and returns the requested page. A requested
// page below 1 or past the end silently yields the last valid page rather
// than an error. An empty collection has exactly one empty page.
func Paginate[T any](items []T, pageSize, requested int) Page[T] {
	if pageSize < 1 {
		pageSize = 1
	}

	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}

	number := requested
	if number < 1 || number > totalPages {
		number = totalPages
	}

	start := (number - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page[T]{
		Items:      items[start:end],
		Number:     number,
		TotalPages: totalPages,
		TotalItems: total,
		HasNext:    number < totalPages,
		HasPrev:    number > 1,
	}
}

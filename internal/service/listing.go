package service

import (
	"strings"
)

// Page is one page of a list.
type Page[T any] struct {
	Items  []T
	Number int
	Pages  int
	Total  int
	Size   int
}

// Paginate slices items into pages of size and clamps number into [1, Pages].
// An empty list has zero pages and an empty page 1.
func Paginate[T any](items []T, number, size int) Page[T] {
	if size <= 0 {
		size = len(items)
		if size == 0 {
			size = 1
		}
	}

	total := len(items)
	pages := (total + size - 1) / size

	if number > pages {
		number = pages
	}
	if number < 1 {
		number = 1
	}

	start := (number - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	return Page[T]{Items: items[start:end], Number: number, Pages: pages, Total: total, Size: size}
}

func (p Page[T]) HasPrev() bool { return p.Number > 1 }
func (p Page[T]) HasNext() bool { return p.Number < p.Pages }
func (p Page[T]) Prev() int     { return p.Number - 1 }
func (p Page[T]) Next() int     { return p.Number + 1 }

// From is the 1-based index of the first item shown, or 0 when empty.
func (p Page[T]) From() int {
	if p.Total == 0 {
		return 0
	}
	return (p.Number-1)*p.Size + 1
}

// To is the 1-based index of the last item shown.
func (p Page[T]) To() int {
	return (p.Number-1)*p.Size + len(p.Items)
}

// PageNumbers lists every page number, for pagination links.
func (p Page[T]) PageNumbers() []int {
	out := make([]int, p.Pages)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// matchesAny reports whether query is a case-insensitive substring of any
// field. A blank query matches everything.
func matchesAny(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// filter keeps the items for which keep returns true.
func filter[T any](items []T, keep func(*T) bool) []T {
	out := make([]T, 0, len(items))
	for i := range items {
		if keep(&items[i]) {
			out = append(out, items[i])
		}
	}
	return out
}

// find returns the item whose id matches, or ErrNotFound.
func find[T any](items []T, id string, idOf func(*T) string) (*T, error) {
	for i := range items {
		if idOf(&items[i]) == id {
			return &items[i], nil
		}
	}
	return nil, ErrNotFound
}

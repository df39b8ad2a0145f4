// Package pagination splits ordered result sets into fixed-size pages.
//
// Page numbers coming from a query string are resolved leniently: anything
// that is not an integer yields the first page, and an integer out of range
// yields the last page. A result set with no items still has one empty page.
package pagination

import (
	"strconv"
	"strings"
)

// DefaultPerPage is the page size used when none is configured.
const DefaultPerPage = 10

// Page is one page of items together with its position in the full set.
type Page[T any] struct {
	Items    []T `json:"items"`
	Number   int `json:"number"`
	NumPages int `json:"num_pages"`
	Count    int `json:"count"`
	PerPage  int `json:"per_page"`
}

// NumPages returns how many pages count items occupy. It is never less than one.
func NumPages(count, perPage int) int {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if count <= 0 {
		return 1
	}
	return (count + perPage - 1) / perPage
}

// Resolve turns a raw page parameter into a valid page number.
func Resolve(count, perPage int, raw string) (number, numPages int) {
	numPages = NumPages(count, perPage)

	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1, numPages
	}
	if n < 1 || n > numPages {
		return numPages, numPages
	}
	return n, numPages
}

// Offset returns the index of the first item on page number.
func Offset(number, perPage int) int {
	if number < 1 {
		return 0
	}
	return (number - 1) * perPage
}

// New assembles a page from its already sliced items.
func New[T any](items []T, number, count, perPage int) *Page[T] {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items:    items,
		Number:   number,
		NumPages: NumPages(count, perPage),
		Count:    count,
		PerPage:  perPage,
	}
}

func (p *Page[T]) HasNext() bool {
	return p.Number < p.NumPages
}

func (p *Page[T]) HasPrevious() bool {
	return p.Number > 1
}

func (p *Page[T]) HasOtherPages() bool {
	return p.HasNext() || p.HasPrevious()
}

func (p *Page[T]) NextNumber() int {
	if !p.HasNext() {
		return p.Number
	}
	return p.Number + 1
}

func (p *Page[T]) PreviousNumber() int {
	if !p.HasPrevious() {
		return p.Number
	}
	return p.Number - 1
}

// Range lists every page number, for rendering page links.
func (p *Page[T]) Range() []int {
	numbers := make([]int, p.NumPages)
	for i := range numbers {
		numbers[i] = i + 1
	}
	return numbers
}

// StartIndex is the 1-based position of the first item on the page, or 0 if empty.
func (p *Page[T]) StartIndex() int {
	if p.Count == 0 {
		return 0
	}
	return Offset(p.Number, p.PerPage) + 1
}

// EndIndex is the 1-based position of the last item on the page, or 0 if empty.
func (p *Page[T]) EndIndex() int {
	if p.Number >= p.NumPages {
		return p.Count
	}
	return p.Number * p.PerPage
}

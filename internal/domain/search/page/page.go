// Package page slices ordered result sets into pages.
package page

// DefaultSize is the page size used when a request does not name one.
const DefaultSize = 15

// Page is one window of an ordered result set plus the total size of the
// set before slicing.
type Page[T any] struct {
	Items []T
	Total int
}

// Params carry a one-based page number and a page size. Zero values select
// the defaults.
type Params struct {
	Number int
	Size   int
}

// Normalize clamps the parameters to usable values. A page number below
// one becomes one and a non-positive size becomes DefaultSize, so a bad
// request still pages from the start rather than failing.
func (p Params) Normalize() Params {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = DefaultSize
	}
	return p
}

// Of slices items to the requested page. A page number past the end clamps
// to the last page, so a stale page link still returns data; for an empty
// set the page is empty. Total always reports the full set size.
func Of[T any](items []T, p Params) Page[T] {
	p = p.Normalize()

	last := (len(items) + p.Size - 1) / p.Size
	if last < 1 {
		last = 1
	}
	if p.Number > last {
		p.Number = last
	}

	start := (p.Number - 1) * p.Size
	if start > len(items) {
		start = len(items)
	}
	end := start + p.Size
	if end > len(items) {
		end = len(items)
	}
	return Page[T]{Items: items[start:end], Total: len(items)}
}

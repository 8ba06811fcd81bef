package models

import "fmt"

// ListResult is one page of a remote collection. A view replaces its
// ListResult wholesale on every applied fetch.
type ListResult[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
}

// PagesFor returns how many pages of size pageSize hold total rows.
func PagesFor(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// Normalize enforces the page invariants on a server response:
// at most pageSize items, a non-negative total, pages derived from total when
// the server omitted it, and 1 <= page <= max(1, pages).
func (r ListResult[T]) Normalize(pageSize int) ListResult[T] {
	if pageSize > 0 && len(r.Items) > pageSize {
		r.Items = r.Items[:pageSize]
	}
	if r.Items == nil {
		r.Items = []T{}
	}
	if r.Total < len(r.Items) {
		r.Total = len(r.Items)
	}
	if r.Pages <= 0 {
		r.Pages = PagesFor(r.Total, pageSize)
	}
	if r.Page < 1 {
		r.Page = 1
	}
	if maxPage := max(1, r.Pages); r.Page > maxPage {
		r.Page = maxPage
	}
	return r
}

// Paginate slices a complete collection into the requested page. It serves
// endpoints that return bare arrays instead of paginated envelopes.
func Paginate[T any](all []T, page, pageSize int) ListResult[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	pages := PagesFor(len(all), pageSize)
	if page < 1 {
		page = 1
	}
	if page > max(1, pages) {
		page = max(1, pages)
	}
	start := (page - 1) * pageSize
	end := min(start+pageSize, len(all))
	items := make([]T, 0, max(0, end-start))
	if start < end {
		items = append(items, all[start:end]...)
	}
	return ListResult[T]{Items: items, Total: len(all), Page: page, Pages: pages}
}

// PageLabel renders the page indicator shown under a table, e.g. "2 of 3".
func (r ListResult[T]) PageLabel() string {
	return fmt.Sprintf("%d of %d", max(1, r.Page), max(1, r.Pages))
}

// Matcher is implemented by records that can be filtered locally.
type Matcher interface {
	Matches(q QueryState) bool
}

// FilterPage applies q's search and status filter to a full collection and
// returns the requested page. Records that do not implement Matcher are
// never filtered out.
func FilterPage[T any](all []T, q QueryState) ListResult[T] {
	filtered := make([]T, 0, len(all))
	for _, item := range all {
		if m, ok := any(item).(Matcher); ok && !m.Matches(q) {
			continue
		}
		filtered = append(filtered, item)
	}
	return Paginate(filtered, q.Page, q.PageSize)
}

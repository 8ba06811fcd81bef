package models

import (
	"net/url"
	"strconv"
	"strings"
)

// DefaultPageSize is the number of rows a list view requests per page.
const DefaultPageSize = 10

// QueryState is the tuple of pagination, search and filter parameters that
// drives a list fetch. It is a value type: the With* methods return a copy.
//
// Changing the search term or the status filter always moves back to page 1;
// only WithPage navigates.
type QueryState struct {
	Page     int
	PageSize int
	Search   string
	Status   Status
}

// NewQueryState returns the initial query: first page, no search, no filter.
// A non-positive pageSize falls back to DefaultPageSize.
func NewQueryState(pageSize int) QueryState {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return QueryState{Page: 1, PageSize: pageSize, Status: StatusAll}
}

func (q QueryState) WithSearch(term string) QueryState {
	q.Search = strings.TrimSpace(term)
	q.Page = 1
	return q
}

func (q QueryState) WithStatus(s Status) QueryState {
	if s == "" {
		s = StatusAll
	}
	q.Status = s
	q.Page = 1
	return q
}

// WithPage moves to page p. Pages below 1 clamp to 1; the upper bound is
// enforced by the server response.
func (q QueryState) WithPage(p int) QueryState {
	if p < 1 {
		p = 1
	}
	q.Page = p
	return q
}

// Values is the request descriptor: page and limit are always present,
// search only when non-empty and status only when it filters something.
func (q QueryState) Values() url.Values {
	v := url.Values{}
	page := q.Page
	if page < 1 {
		page = 1
	}
	size := q.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	v.Set("page", strconv.Itoa(page))
	v.Set("limit", strconv.Itoa(size))
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Status != "" && q.Status != StatusAll {
		v.Set("status", string(q.Status))
	}
	return v
}

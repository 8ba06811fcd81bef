package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQueryState_Defaults(t *testing.T) {
	q := NewQueryState(0)
	assert.Equal(t, QueryState{Page: 1, PageSize: DefaultPageSize, Status: StatusAll}, q)
}

func TestQueryState_ChangesResetPage(t *testing.T) {
	start := NewQueryState(10).WithPage(4)
	require.Equal(t, 4, start.Page)

	changes := map[string]func(QueryState) QueryState{
		"search":        func(q QueryState) QueryState { return q.WithSearch("john") },
		"empty search":  func(q QueryState) QueryState { return q.WithSearch("") },
		"status":        func(q QueryState) QueryState { return q.WithStatus(StatusActive) },
		"status to all": func(q QueryState) QueryState { return q.WithStatus(StatusAll) },
		"blank status":  func(q QueryState) QueryState { return q.WithStatus("") },
	}

	for name, change := range changes {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, 1, change(start).Page)
		})
	}
}

func TestQueryState_WithPage_DoesNotReset(t *testing.T) {
	q := NewQueryState(10).WithSearch("ana").WithStatus(StatusInactive).WithPage(3)

	assert.Equal(t, 3, q.Page)
	assert.Equal(t, "ana", q.Search)
	assert.Equal(t, StatusInactive, q.Status)
	assert.Equal(t, 1, q.WithPage(-5).Page)
}

func TestQueryState_IsValueType(t *testing.T) {
	q := NewQueryState(10)
	_ = q.WithSearch("x").WithPage(9)
	assert.Equal(t, 1, q.Page)
	assert.Empty(t, q.Search)
}

func TestQueryState_Values(t *testing.T) {
	q := NewQueryState(10).WithSearch(" john ").WithStatus(StatusActive).WithPage(2)
	v := q.Values()

	assert.Equal(t, "2", v.Get("page"))
	assert.Equal(t, "10", v.Get("limit"))
	assert.Equal(t, "john", v.Get("search"))
	assert.Equal(t, "active", v.Get("status"))
	assert.Equal(t, "limit=10&page=2&search=john&status=active", v.Encode())
}

func TestQueryState_Values_OmitsUnsetFilters(t *testing.T) {
	v := NewQueryState(25).Values()

	assert.Equal(t, "limit=25&page=1", v.Encode())
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("Active", MemberStatuses)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, st)

	st, err = ParseStatus("", MemberStatuses)
	require.NoError(t, err)
	assert.Equal(t, StatusAll, st)

	_, err = ParseStatus("completed", MemberStatuses)
	require.Error(t, err)

	st, err = ParseStatus("failed", PaymentStatuses)
	require.NoError(t, err)
	assert.Equal(t, PaymentFailed, st)
}

package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Grupp05-AI/Admin-sida/tips"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	rows       []tips.Tip
	categories []string
	err        error
	queries    []tips.Query
}

func (s *fakeStore) ListTips(_ context.Context, q tips.Query) ([]tips.Tip, int, error) {
	s.queries = append(s.queries, q)
	if s.err != nil {
		return nil, 0, s.err
	}
	start := q.Offset()
	if start > len(s.rows) {
		start = len(s.rows)
	}
	end := start + q.Limit
	if end > len(s.rows) {
		end = len(s.rows)
	}
	page := append([]tips.Tip(nil), s.rows[start:end]...)
	return page, len(s.rows), nil
}

func (s *fakeStore) Categories(context.Context) ([]string, error) {
	return s.categories, s.err
}

func (s *fakeStore) CountTips(context.Context) (int, error) {
	return len(s.rows), s.err
}

type fakeBackfiller struct {
	calls int
}

func (b *fakeBackfiller) Backfill(_ context.Context, rows []tips.Tip) int {
	b.calls++
	n := 0
	for i := range rows {
		if !rows[i].HasCoordinates() && tips.Str(rows[i].Place) == "Visby" {
			rows[i].SetCoordinates(57.64, 18.29)
			n++
		}
	}
	return n
}

func TestParseQuery_Defaults(t *testing.T) {
	q, err := ParseQuery(Params{})
	require.NoError(t, err)

	assert.Equal(t, 1, q.Page)
	assert.Equal(t, DefaultLimit, q.Limit)
	assert.Empty(t, q.Categories)
	assert.Nil(t, q.From)
	assert.Nil(t, q.To)
}

func TestParseQuery_Clamping(t *testing.T) {
	cases := []struct {
		page, limit         string
		wantPage, wantLimit int
	}{
		{"0", "0", 1, 1},
		{"-3", "-10", 1, 1},
		{"2", "10000", 2, MaxLimit},
		{"abc", "xyz", 1, DefaultLimit},
		{"4", "25", 4, 25},
	}
	for _, tc := range cases {
		q, err := ParseQuery(Params{Page: tc.page, Limit: tc.limit})
		require.NoError(t, err)
		assert.Equal(t, tc.wantPage, q.Page, "page %q", tc.page)
		assert.Equal(t, tc.wantLimit, q.Limit, "limit %q", tc.limit)
	}
}

func TestParseQuery_CategoriesAndDates(t *testing.T) {
	q, err := ParseQuery(Params{
		Q:          "  drönare ",
		Categories: "Drönare, Fordon,,",
		From:       "2025-09-01",
		To:         "2025-09-30",
	})
	require.NoError(t, err)

	assert.Equal(t, "drönare", q.Search)
	assert.Equal(t, []string{"Drönare", "Fordon"}, q.Categories)
	assert.Equal(t, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), *q.From)
	assert.Equal(t, time.Date(2025, 9, 30, 23, 59, 59, 999000000, time.UTC), *q.To)
}

func TestParseQuery_InvalidDate(t *testing.T) {
	_, err := ParseQuery(Params{From: "yesterday"})
	assert.Error(t, err)
}

func TestList_BackfillsRows(t *testing.T) {
	visby := "Visby"
	lat, lon := 59.33, 18.07
	store := &fakeStore{rows: []tips.Tip{
		{ID: 1, Latitude: &lat, Longitude: &lon},
		{ID: 2, Place: &visby},
	}}
	bf := &fakeBackfiller{}
	svc := NewTipService(store, bf, false)

	res, err := svc.List(context.Background(), tips.Query{Page: 1, Limit: 100, Categories: []string{"Drönare"}})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 100, res.Limit)
	require.Len(t, res.Items, 2)
	assert.True(t, res.Items[1].HasCoordinates())
	assert.Equal(t, 1, bf.calls)
}

func TestList_StoreError(t *testing.T) {
	svc := NewTipService(&fakeStore{err: errors.New("relation \"reports\" does not exist")}, nil, false)

	_, err := svc.List(context.Background(), tips.Query{Page: 1, Limit: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reports")
}

func TestList_MasksContact(t *testing.T) {
	email := "anna.svensson@example.com"
	phone := "070-123 45 67"
	name := "Anna Svensson"
	store := &fakeStore{rows: []tips.Tip{{ID: 1, Contact: &email}, {ID: 2, Contact: &phone}, {ID: 3, Contact: &name}, {ID: 4}}}
	svc := NewTipService(store, nil, true)

	res, err := svc.List(context.Background(), tips.Query{Page: 1, Limit: 10})
	require.NoError(t, err)

	for i, original := range []string{email, phone, name} {
		got := tips.Str(res.Items[i].Contact)
		assert.NotEqual(t, original, got)
		assert.True(t, strings.Contains(got, "*"), "masked value %q", got)
	}
	assert.Nil(t, res.Items[3].Contact)
}

func TestFetchAll_PagesUntilTotal(t *testing.T) {
	rows := make([]tips.Tip, 230)
	for i := range rows {
		rows[i] = tips.Tip{ID: int64(i + 1)}
	}
	store := &fakeStore{rows: rows}
	svc := NewTipService(store, &fakeBackfiller{}, false)

	all, err := svc.FetchAll(context.Background(), tips.Query{Search: "x", Page: 5, Limit: 3})
	require.NoError(t, err)

	assert.Len(t, all, 230)
	require.Len(t, store.queries, 3)
	for i, q := range store.queries {
		assert.Equal(t, i+1, q.Page)
		assert.Equal(t, MaxLimit, q.Limit)
		assert.Equal(t, "x", q.Search)
	}
}

func TestCategories(t *testing.T) {
	svc := NewTipService(&fakeStore{categories: []string{"Fordon", "Drönare", " Fordon ", ""}}, nil, false)

	got, err := svc.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []tips.Category{{Name: "Drönare"}, {Name: "Fordon"}}, got)
}

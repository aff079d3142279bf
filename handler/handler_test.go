package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Grupp05-AI/Admin-sida/dashboard"
	"github.com/Grupp05-AI/Admin-sida/tips"
	"github.com/gofiber/fiber/v2"
	"github.com/jonboulle/clockwork"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTipService struct {
	rows       []tips.Tip
	categories []tips.Category
	count      int
	err        error
	lastQuery  tips.Query
}

func (f *fakeTipService) List(_ context.Context, q tips.Query) (*tips.ListResponse, error) {
	f.lastQuery = q
	if f.err != nil {
		return nil, f.err
	}
	var items []tips.Tip
	for _, t := range f.rows {
		if len(q.Categories) == 0 || tips.Str(t.Category) == q.Categories[0] {
			items = append(items, t)
		}
	}
	total := len(items)
	start := q.Offset()
	if start > len(items) {
		start = len(items)
	}
	end := start + q.Limit
	if end > len(items) {
		end = len(items)
	}
	return &tips.ListResponse{Items: items[start:end], Total: total, Page: q.Page, Limit: q.Limit}, nil
}

func (f *fakeTipService) FetchAll(ctx context.Context, q tips.Query) ([]tips.Tip, error) {
	q.Page, q.Limit = 1, 10000
	resp, err := f.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (f *fakeTipService) Categories(context.Context) ([]tips.Category, error) {
	return f.categories, f.err
}

func (f *fakeTipService) Health(context.Context) (int, error) {
	return f.count, f.err
}

type fakePruner struct {
	calls int
	err   error
}

func (f *fakePruner) Prune() error {
	f.calls++
	return f.err
}

func strp(s string) *string { return &s }

func drones(n int) []tips.Tip {
	out := make([]tips.Tip, 0, n)
	for i := 0; i < n; i++ {
		t := tips.Tip{ID: int64(i + 1), Category: strp("Drönare"), Text: strp("Drönare över hamnen")}
		t.SetCoordinates(59.3, 18.0)
		out = append(out, t)
	}
	return out
}

func newTestApp(svc *fakeTipService, pruner Pruner) *fiber.App {
	app := fiber.New()
	app.Get("/healthcheck", HealthCheck)
	app.Get("/api/health", StoreHealth(svc))
	app.Get("/api/tips", GetTips(svc))
	app.Get("/api/categories", GetCategoriesHandler(svc))
	app.Get("/favicon.ico", Favicon)
	app.Get("/docs", RedirectDocs)
	app.Get("/caches/prune", InvalidateCache(pruner))

	sessions := dashboard.NewSessions(svc, time.Minute, clockwork.NewFakeClock())
	h := NewDashboardHandler(sessions)
	app.Post("/api/dashboard/sessions", h.HandleOpen)
	app.Post("/api/dashboard/sessions/:id/events", h.HandleEvent)
	app.Get("/api/dashboard/sessions/:id", h.HandleView)
	return app
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, jsoniter.Unmarshal(body, v), string(body))
}

func Test_GetTipsClampsLimit(t *testing.T) {
	svc := &fakeTipService{rows: drones(150)}
	app := newTestApp(svc, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/tips?categories=Dr%C3%B6nare&limit=10000", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body tips.ListResponse
	decode(t, resp, &body)
	assert.Equal(t, 100, body.Limit)
	assert.Equal(t, 1, body.Page)
	assert.Equal(t, 150, body.Total)
	assert.Len(t, body.Items, 100)
	assert.Equal(t, []string{"Drönare"}, svc.lastQuery.Categories)
}

func Test_GetTipsDefaults(t *testing.T) {
	svc := &fakeTipService{rows: drones(3)}
	app := newTestApp(svc, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/tips?page=-4&q=%20hamn%20", nil))
	require.NoError(t, err)

	var body tips.ListResponse
	decode(t, resp, &body)
	assert.Equal(t, 50, body.Limit)
	assert.Equal(t, 1, body.Page)
	assert.Equal(t, "hamn", svc.lastQuery.Search)
}

func Test_GetTipsRejectsBadDate(t *testing.T) {
	app := newTestApp(&fakeTipService{}, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/tips?from=yesterday", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body tips.ErrorResponse
	decode(t, resp, &body)
	assert.Contains(t, body.Error, "invalid from date")
}

func Test_GetTipsStoreFailure(t *testing.T) {
	app := newTestApp(&fakeTipService{err: errors.New("relation \"reports\" does not exist")}, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/tips", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var body tips.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, "relation \"reports\" does not exist", body.Error)
}

func Test_GetCategories(t *testing.T) {
	svc := &fakeTipService{categories: []tips.Category{{Name: "Drönare"}, {Name: "Fordon"}}}
	app := newTestApp(svc, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/categories", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body []tips.Category
	decode(t, resp, &body)
	assert.Equal(t, svc.categories, body)
}

func Test_StoreHealth(t *testing.T) {
	app := newTestApp(&fakeTipService{count: 42}, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body tips.HealthResponse
	decode(t, resp, &body)
	assert.Equal(t, tips.HealthResponse{OK: true, Rows: 42}, body)

	app = newTestApp(&fakeTipService{err: errors.New("timeout")}, nil)
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	decode(t, resp, &body)
	assert.False(t, body.OK)
	assert.Equal(t, "timeout", body.Error)
}

func Test_HealthCheck(t *testing.T) {
	app := newTestApp(&fakeTipService{}, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func Test_Favicon(t *testing.T) {
	app := newTestApp(&fakeTipService{}, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/favicon.ico", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/gif", resp.Header.Get(fiber.HeaderContentType))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "GIF89a"))
}

func Test_RedirectDocs(t *testing.T) {
	app := newTestApp(&fakeTipService{}, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/docs", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusMovedPermanently, resp.StatusCode)
	assert.Equal(t, "/swagger/index.html", resp.Header.Get(fiber.HeaderLocation))
}

func Test_InvalidateCache(t *testing.T) {
	pruner := &fakePruner{}
	app := newTestApp(&fakeTipService{}, pruner)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/caches/prune", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, pruner.calls)

	pruner.err = errors.New("redis down")
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/caches/prune", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	app = newTestApp(&fakeTipService{}, nil)
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/caches/prune", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func Test_DashboardSessionFlow(t *testing.T) {
	app := newTestApp(&fakeTipService{rows: drones(10)}, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/dashboard/sessions", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var opened dashboard.Response
	decode(t, resp, &opened)
	require.NotEmpty(t, opened.SessionID)
	assert.Equal(t, "Sida 1 / 2", opened.PageInfo)
	assert.Len(t, opened.Markers, 10)

	req := httptest.NewRequest(http.MethodPost, "/api/dashboard/sessions/"+opened.SessionID+"/events", strings.NewReader(`{"type":"next"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var next dashboard.Response
	decode(t, resp, &next)
	assert.Equal(t, "Sida 2 / 2", next.PageInfo)
	assert.True(t, next.ShowFirst)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/dashboard/sessions/"+opened.SessionID, nil))
	require.NoError(t, err)
	var view dashboard.Response
	decode(t, resp, &view)
	assert.Equal(t, 2, view.Page)
}

func Test_DashboardErrors(t *testing.T) {
	app := newTestApp(&fakeTipService{rows: drones(1)}, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/dashboard/sessions/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	req := httptest.NewRequest(http.MethodPost, "/api/dashboard/sessions/nope/events", strings.NewReader(`{"type":"next"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	req = httptest.NewRequest(http.MethodPost, "/api/dashboard/sessions/nope/events", strings.NewReader(`{"type":"dance"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

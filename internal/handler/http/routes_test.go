package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-list-keeper/models"
)

func do(t *testing.T, router http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

// ── lists ─────────────────────────────────────────────────────────────────────

func TestRoutes_Lists(t *testing.T) {
	h, _ := newTestHandler()
	router := h.Init()

	rr := do(t, router, http.MethodGet, "/listen", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	rr = do(t, router, http.MethodPost, "/listen", `{"bezeichnung":" Groceries "}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	created := decode[models.List](t, rr)
	assert.Equal(t, "Groceries", created.Label)
	assert.Positive(t, created.ID)

	rr = do(t, router, http.MethodGet, "/listen/1", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, created.ID, decode[models.List](t, rr).ID)

	rr = do(t, router, http.MethodGet, "/listen", "")
	assert.Len(t, decode[[]models.List](t, rr), 1)

	rr = do(t, router, http.MethodDelete, "/listen/1", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = do(t, router, http.MethodDelete, "/listen/1", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "list not found", rr.Body.String())
}

func TestRoutes_Errors(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{name: "empty label", method: http.MethodPost, path: "/listen", body: `{"bezeichnung":"  "}`, wantStatus: http.StatusBadRequest, wantBody: "bezeichnung is required"},
		{name: "broken json", method: http.MethodPost, path: "/listen", body: `{`, wantStatus: http.StatusBadRequest, wantBody: "invalid data provided"},
		{name: "non numeric id", method: http.MethodGet, path: "/listen/abc", wantStatus: http.StatusBadRequest, wantBody: "invalid id"},
		{name: "negative id", method: http.MethodDelete, path: "/positionen/-3", wantStatus: http.StatusBadRequest, wantBody: "invalid id"},
		{name: "unknown list items", method: http.MethodGet, path: "/listen/99/positionen", wantStatus: http.StatusNotFound, wantBody: "list not found"},
		{name: "item into unknown list", method: http.MethodPost, path: "/listen/99/positionen", body: `{"artikel_name":"Brot"}`, wantStatus: http.StatusNotFound, wantBody: "list not found"},
		{name: "patch without fields", method: http.MethodPatch, path: "/positionen/1", body: `{}`, wantStatus: http.StatusBadRequest, wantBody: "no fields to update"},
		{name: "patch unknown item", method: http.MethodPatch, path: "/positionen/1", body: `{"erledigt":true}`, wantStatus: http.StatusNotFound, wantBody: "item not found"},
		{name: "empty catalog name", method: http.MethodPost, path: "/artikel", body: `{"name":""}`, wantStatus: http.StatusBadRequest, wantBody: "name is required"},
		{name: "unknown catalog entry", method: http.MethodDelete, path: "/artikel/5", wantStatus: http.StatusNotFound, wantBody: "catalog entry not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler()

			rr := do(t, h.Init(), tt.method, tt.path, tt.body)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantBody, rr.Body.String())
		})
	}
}

func TestRoutes_InternalErrorIsHidden(t *testing.T) {
	h, mem := newTestHandler()
	mem.failNext = errors.New("disk on fire")

	rr := do(t, h.Init(), http.MethodGet, "/listen", "")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "internal server error", rr.Body.String())
}

// ── items ─────────────────────────────────────────────────────────────────────

func TestRoutes_Items(t *testing.T) {
	h, _ := newTestHandler()
	router := h.Init()

	rr := do(t, router, http.MethodPost, "/listen", `{"bezeichnung":"Markt"}`)
	list := decode[models.List](t, rr)

	rr = do(t, router, http.MethodPost, "/listen/1/positionen", `{"artikel_name":"Äpfel","bemerkung":"rot"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	item := decode[models.Item](t, rr)
	assert.Equal(t, list.ID, item.ListID)

	rr = do(t, router, http.MethodPatch, "/positionen/2", `{"erledigt":true}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, decode[models.Item](t, rr).Done)

	rr = do(t, router, http.MethodPut, "/positionen/2", `{"artikel_name":"Birnen"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	updated := decode[models.Item](t, rr)
	assert.Equal(t, "Birnen", updated.Name)
	assert.True(t, updated.Done)
	assert.Equal(t, "rot", updated.Note)

	rr = do(t, router, http.MethodGet, "/positionen/2", "")
	assert.Equal(t, updated, decode[models.Item](t, rr))

	rr = do(t, router, http.MethodGet, "/listen/1/positionen", "")
	assert.Equal(t, []models.Item{updated}, decode[[]models.Item](t, rr))

	rr = do(t, router, http.MethodDelete, "/listen/1", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = do(t, router, http.MethodGet, "/positionen/2", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// ── catalog ───────────────────────────────────────────────────────────────────

func TestRoutes_Catalog(t *testing.T) {
	h, _ := newTestHandler()
	router := h.Init()

	rr := do(t, router, http.MethodPost, "/artikel", `{"name":"Milch"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = do(t, router, http.MethodPost, "/artikel", `{"name":"Milch"}`)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "catalog entry already exists", rr.Body.String())

	rr = do(t, router, http.MethodGet, "/artikel", "")
	assert.Equal(t, []models.CatalogEntry{{ID: 1, Name: "Milch"}}, decode[[]models.CatalogEntry](t, rr))

	rr = do(t, router, http.MethodDelete, "/artikel/1", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

// ── service endpoints ─────────────────────────────────────────────────────────

func TestRoutes_PingAndVersion(t *testing.T) {
	h, _ := newTestHandler()
	router := h.Init()

	rr := do(t, router, http.MethodGet, "/ping", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = do(t, router, http.MethodGet, "/version", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"version":"1.2.3","date":"2026-10-19","commit":"abc123"}`, rr.Body.String())
}

func TestRoutes_MethodNotAllowed(t *testing.T) {
	h, _ := newTestHandler()

	rr := do(t, h.Init(), http.MethodPost, "/positionen/4", `{}`)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "GET, PUT, PATCH, DELETE", rr.Header().Get("Allow"))
}

func TestRoutes_CORSPreflight(t *testing.T) {
	h, _ := newTestHandler()

	rr := do(t, h.Init(), http.MethodOptions, "/listen", "")

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Headers"), "Idempotency-Key")
}

func TestRoutes_UnknownPath(t *testing.T) {
	h, _ := newTestHandler()

	rr := do(t, h.Init(), http.MethodGet, "/api/user/login", "")

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

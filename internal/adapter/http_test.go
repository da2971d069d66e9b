// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-list-keeper/internal/config"
	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/models"
)

func newTestAdapter(t *testing.T, serverURL string) ServerAdapter {
	t.Helper()
	a, err := NewHTTPServerAdapter(config.ClientAdapter{HTTPAddress: serverURL, RequestTimeout: 2 * time.Second}, logger.Nop())
	require.NoError(t, err)
	return a
}

func ptr[T any](v T) *T { return &v }

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

// ── construction ─────────────────────────────────────────────────────────────

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "localhost:8080", want: "http://localhost:8080"},
		{raw: " https://lists.example.com/ ", want: "https://lists.example.com"},
		{raw: "http://127.0.0.1:9000/api/", want: "http://127.0.0.1:9000/api"},
		{raw: "", wantErr: true},
		{raw: "http://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := normalizeBaseURL(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewHTTPServerAdapter_InvalidAddress(t *testing.T) {
	_, err := NewHTTPServerAdapter(config.ClientAdapter{HTTPAddress: "  "}, logger.Nop())
	assert.Error(t, err)
}

// ── reads ────────────────────────────────────────────────────────────────────

func TestGetLists_Success(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/listen", r.URL.Path)
		_, _ = io.WriteString(w, `[{"id":1,"bezeichnung":"Wochenmarkt","erstellt_am":"2026-03-01T10:00:00Z"}]`)
	}))
	defer srv.Close()

	lists, err := newTestAdapter(t, srv.URL).GetLists(context.Background())

	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, int64(1), lists[0].ID)
	assert.Equal(t, "Wochenmarkt", lists[0].Label)
	assert.True(t, created.Equal(lists[0].CreatedAt))
}

func TestGetCatalog_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/artikel", r.URL.Path)
		writeJSON(t, w, http.StatusOK, []models.CatalogEntry{{ID: 1, Name: "Milch"}})
	}))
	defer srv.Close()

	entries, err := newTestAdapter(t, srv.URL).GetCatalog(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []models.CatalogEntry{{ID: 1, Name: "Milch"}}, entries)
}

func TestGetItems_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/listen/4/positionen", r.URL.Path)
		_, _ = io.WriteString(w, `[{"id":9,"liste_id":4,"artikel_name":"Brot","erledigt":true}]`)
	}))
	defer srv.Close()

	items, err := newTestAdapter(t, srv.URL).GetItems(context.Background(), 4)

	require.NoError(t, err)
	assert.Equal(t, []models.Item{{ID: 9, ListID: 4, Name: "Brot", Done: true}}, items)
}

func TestGetItems_UnknownList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "list not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestAdapter(t, srv.URL).GetItems(context.Background(), 4)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, IsRejected(err))
	assert.False(t, IsUnavailable(err))
}

func TestGetLists_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html>captive portal</html>`)
	}))
	defer srv.Close()

	_, err := newTestAdapter(t, srv.URL).GetLists(context.Background())

	assert.ErrorIs(t, err, ErrMalformedResponse)
	assert.True(t, IsUnavailable(err))
}

// ── writes ───────────────────────────────────────────────────────────────────

func TestCreateList_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/listen", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req models.CreateListRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Baumarkt", req.Label)

		writeJSON(t, w, http.StatusCreated, models.List{ID: 12, Label: req.Label, CreatedAt: time.Now()})
	}))
	defer srv.Close()

	list, err := newTestAdapter(t, srv.URL).CreateList(context.Background(), models.CreateListRequest{Label: "Baumarkt"})

	require.NoError(t, err)
	assert.Equal(t, int64(12), list.ID)
	assert.Equal(t, "Baumarkt", list.Label)
}

func TestCreateList_BadRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bezeichnung is required", http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := newTestAdapter(t, srv.URL).CreateList(context.Background(), models.CreateListRequest{})

	assert.ErrorIs(t, err, ErrBadRequest)
	assert.Contains(t, err.Error(), "bezeichnung is required")
}

func TestCreateItem_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/listen/3/positionen", r.URL.Path)

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"artikel_name":"Milch","bemerkung":"1l"}`, string(body))

		writeJSON(t, w, http.StatusCreated, models.Item{ID: 30, ListID: 3, Name: "Milch", Note: "1l"})
	}))
	defer srv.Close()

	item, err := newTestAdapter(t, srv.URL).CreateItem(context.Background(), 3, models.CreateItemRequest{Name: "Milch", Note: "1l"})

	require.NoError(t, err)
	assert.Equal(t, models.Item{ID: 30, ListID: 3, Name: "Milch", Note: "1l"}, item)
}

func TestUpdateItem_SendsOnlySetFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/positionen/30", r.URL.Path)

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"erledigt":true}`, string(body))

		writeJSON(t, w, http.StatusOK, models.Item{ID: 30, ListID: 3, Name: "Milch", Done: true})
	}))
	defer srv.Close()

	item, err := newTestAdapter(t, srv.URL).UpdateItem(context.Background(), 30, models.ItemUpdate{Done: ptr(true)})

	require.NoError(t, err)
	assert.True(t, item.Done)
}

func TestDelete_Paths(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		paths = append(paths, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	require.NoError(t, a.DeleteList(context.Background(), 5))
	require.NoError(t, a.DeleteItem(context.Background(), 6))

	assert.Equal(t, []string{"/listen/5", "/positionen/6"}, paths)
}

// ── replay ───────────────────────────────────────────────────────────────────

func TestReplay_SendsOperationVerbatim(t *testing.T) {
	op, err := models.NewCreateItemOperation(-4, 3, models.CreateItemRequest{Name: "Eier"})
	require.NoError(t, err)
	op.IdempotencyKey = "5f0c4d1e-8a7b-4f52-9a55-1d6c0c2e7a11"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/listen/3/positionen", r.URL.Path)
		assert.Equal(t, op.IdempotencyKey, r.Header.Get(IdempotencyKeyHeader))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, string(op.Body), string(body))

		writeJSON(t, w, http.StatusCreated, models.Item{ID: 31, ListID: 3, Name: "Eier"})
	}))
	defer srv.Close()

	body, err := newTestAdapter(t, srv.URL).Replay(context.Background(), op)

	require.NoError(t, err)
	var item models.Item
	require.NoError(t, json.Unmarshal(body, &item))
	assert.Equal(t, int64(31), item.ID)
}

func TestReplay_DeleteWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/listen/8", r.URL.Path)
		assert.Empty(t, r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	_, err := newTestAdapter(t, srv.URL).Replay(context.Background(), models.NewDeleteListOperation(8))
	assert.NoError(t, err)
}

// ── error classification ─────────────────────────────────────────────────────

func TestStatusClassification(t *testing.T) {
	tests := []struct {
		status      int
		sentinel    error
		unavailable bool
	}{
		{http.StatusBadRequest, ErrBadRequest, false},
		{http.StatusNotFound, ErrNotFound, false},
		{http.StatusConflict, ErrConflict, false},
		{http.StatusUnprocessableEntity, ErrUnexpectedStatus, false},
		{http.StatusInternalServerError, ErrInternalServerError, true},
		{http.StatusBadGateway, ErrBadGateway, true},
		{http.StatusServiceUnavailable, ErrServiceUnavailable, true},
		{http.StatusGatewayTimeout, ErrServiceUnavailable, true},
		{http.StatusInsufficientStorage, ErrInternalServerError, true},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			err := newTestAdapter(t, srv.URL).DeleteItem(context.Background(), 1)

			assert.ErrorIs(t, err, tt.sentinel)
			assert.Equal(t, tt.unavailable, IsUnavailable(err))
			assert.Equal(t, !tt.unavailable, IsRejected(err))
		})
	}
}

func TestPing_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := newTestAdapter(t, url).Ping(context.Background())

	assert.ErrorIs(t, err, ErrUnreachable)
	assert.True(t, IsUnavailable(err))
	assert.False(t, IsRejected(err))
}

func TestPing_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ping", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	assert.NoError(t, newTestAdapter(t, srv.URL).Ping(context.Background()))
}

func TestCancelledContextIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestAdapter(t, srv.URL).GetLists(ctx)

	assert.ErrorIs(t, err, ErrUnreachable)
	assert.ErrorIs(t, err, context.Canceled)
}

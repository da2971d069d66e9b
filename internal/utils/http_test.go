package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		data     any
		wantBody string
	}{
		{name: "object", status: http.StatusOK, data: map[string]string{"key": "value"}, wantBody: `{"key":"value"}`},
		{name: "created", status: http.StatusCreated, data: struct {
			ID    int64  `json:"id"`
			Label string `json:"bezeichnung"`
		}{ID: 42, Label: "Groceries"}, wantBody: `{"id":42,"bezeichnung":"Groceries"}`},
		{name: "nil", status: http.StatusOK, data: nil, wantBody: `null`},
		{name: "empty slice", status: http.StatusOK, data: NonNil[int](nil), wantBody: `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			err := WriteJSON(w, tt.status, tt.data)

			require.NoError(t, err)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestWriteJSON_InvalidData(t *testing.T) {
	w := httptest.NewRecorder()

	err := WriteJSON(w, http.StatusOK, make(chan int))

	assert.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestWriteMessage(t *testing.T) {
	w := httptest.NewRecorder()

	WriteMessage(w, http.StatusNotFound, "list not found\n")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "list not found", w.Body.String())
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestNonNil(t *testing.T) {
	assert.Equal(t, []string{}, NonNil[string](nil))
	assert.Equal(t, []string{"a"}, NonNil([]string{"a"}))
}

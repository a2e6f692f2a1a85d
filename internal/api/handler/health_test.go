package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/daap14/repoteams/internal/api/handler"
)

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("ping without deadline")
	}
	return m.err
}

func TestHealthHandler_Healthy(t *testing.T) {
	// Arrange
	h := handler.NewHealthHandler(&mockPinger{}, "0.1.0")
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	// Act
	h.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	env := parseEnvelope(t, w)
	data := env["data"].(map[string]any)
	assert.Equal(t, "healthy", data["status"])
	assert.Equal(t, "0.1.0", data["version"])
	assert.Equal(t, true, data["database"].(map[string]any)["connected"])
	assert.Nil(t, env["error"])
}

func TestHealthHandler_Degraded(t *testing.T) {
	tests := []struct {
		name   string
		pinger handler.DBPinger
	}{
		{name: "ping fails", pinger: &mockPinger{err: errors.New("connection refused")}},
		{name: "no pinger", pinger: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler.NewHealthHandler(tt.pinger, "dev")
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			w := httptest.NewRecorder()

			h.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			data := parseEnvelope(t, w)["data"].(map[string]any)
			assert.Equal(t, "degraded", data["status"])
			assert.Equal(t, false, data["database"].(map[string]any)["connected"])
		})
	}
}

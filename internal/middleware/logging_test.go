package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggingPassesResponseThrough(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		method        string
		path          string
		handlerStatus int
	}{
		{
			name:          "get ok",
			method:        "GET",
			path:          "/api/v1/categories",
			handlerStatus: http.StatusOK,
		},
		{
			name:          "post created",
			method:        "POST",
			path:          "/api/v1/terms",
			handlerStatus: http.StatusCreated,
		},
		{
			name:          "not found",
			method:        "GET",
			path:          "/missing",
			handlerStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.handlerStatus)
			})
			wrapped := Logging(zap.NewNop())(handler)

			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()
			wrapped.ServeHTTP(rec, req)

			if rec.Code != tt.handlerStatus {
				t.Errorf("expected status %d, got %d", tt.handlerStatus, rec.Code)
			}
		})
	}
}

func TestLoggingRecordsStatusAndSize(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	wrapped := Logging(logger)(handler)

	req := httptest.NewRequest("POST", "/api/v1/categories", nil)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	entries := logs.FilterMessage("http_request").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 http_request entry, got %d", len(entries))
	}

	fields := entries[0].ContextMap()
	if got := fields["status_code"]; got != int64(http.StatusCreated) {
		t.Errorf("expected status_code 201, got %v", got)
	}
	if got := fields["bytes"]; got != int64(len(`{"ok":true}`)) {
		t.Errorf("expected bytes %d, got %v", len(`{"ok":true}`), got)
	}
	if got := fields["method"]; got != "POST" {
		t.Errorf("expected method POST, got %v", got)
	}
}

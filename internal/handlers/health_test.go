package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kotoba-study/kotoba-api/internal/store"
)

func TestHealthCheckBasic(t *testing.T) {
	t.Parallel()

	checker := NewHealthChecker(store.NewMemoryStore(), nil)
	req := httptest.NewRequest("GET", "/healthz", nil)
	rec := httptest.NewRecorder()

	checker.HealthCheck(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("status = %q, want healthy", resp.Status)
	}
	if resp.Checks != nil {
		t.Error("basic mode must not run dependency checks")
	}
}

func TestHealthCheckExtended(t *testing.T) {
	t.Parallel()

	checker := NewHealthChecker(store.NewMemoryStore(), nil)
	req := httptest.NewRequest("GET", "/healthz?mode=extended", nil)
	rec := httptest.NewRecorder()

	checker.HealthCheck(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Checks["store"] != "healthy" {
		t.Errorf("store check = %q, want healthy", resp.Checks["store"])
	}
	if _, ok := resp.Checks["redis"]; ok {
		t.Error("redis check must be skipped when no limiter is wired")
	}
}

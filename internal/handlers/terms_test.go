package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/kotoba-study/kotoba-api/internal/models"
)

func createTerm(t *testing.T, router *mux.Router, categoryKey, text string) *models.Term {
	t.Helper()

	rec, env := doJSON(t, router, "POST", "/terms", CreateTermRequest{
		Term:        text,
		Meaning:     "meaning",
		CategoryKey: categoryKey,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create term: status %d, body %s", rec.Code, rec.Body.String())
	}
	var resp CreateTermResponse
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatalf("decoding created term: %v", err)
	}
	if resp.Warning != "" {
		t.Fatalf("unexpected warning on create: %q", resp.Warning)
	}
	return resp.Term
}

func TestCreateTermEndpointTracksActivity(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	key := createCategory(t, router, "vocab", nil)
	term := createTerm(t, router, key, "環境")

	if term.Text != "環境" || term.CategoryKey != key {
		t.Errorf("term = %+v", term)
	}

	// The creation was tracked as an add_term activity.
	rec, env := doJSON(t, router, "GET", "/activity/logs?date="+term.CreatedAt.Format(models.DateLayout), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("fetch logs: status %d, body %s", rec.Code, rec.Body.String())
	}
	var logs []*models.ActivityLog
	if err := json.Unmarshal(env.Data, &logs); err != nil {
		t.Fatalf("decoding logs: %v", err)
	}
	if len(logs) != 1 || logs[0].Type != models.ActivityAddTerm {
		t.Errorf("logs = %+v, want one add_term entry", logs)
	}
}

func TestCreateTermEndpointRejects(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	key := createCategory(t, router, "vocab", nil)

	tests := []struct {
		name       string
		body       any
		wantStatus int
	}{
		{name: "missing term", body: map[string]any{"meaning": "m", "category_key": key}, wantStatus: http.StatusBadRequest},
		{name: "missing meaning", body: map[string]any{"term": "w", "category_key": key}, wantStatus: http.StatusBadRequest},
		{name: "bad image url", body: map[string]any{"term": "w", "meaning": "m", "category_key": key, "image_url": "not a url"}, wantStatus: http.StatusBadRequest},
		{name: "unknown category", body: map[string]any{"term": "w", "meaning": "m", "category_key": "missing"}, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := doJSON(t, router, "POST", "/terms", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestTermEndpointLifecycle(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	key := createCategory(t, router, "vocab", nil)
	term := createTerm(t, router, key, "word")

	rec, env := doJSON(t, router, "PATCH", "/terms/"+term.ID.String(), map[string]any{"is_favorite": true})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch: status %d, body %s", rec.Code, rec.Body.String())
	}
	var updated models.Term
	if err := json.Unmarshal(env.Data, &updated); err != nil {
		t.Fatalf("decoding updated term: %v", err)
	}
	if !updated.IsFavorite {
		t.Error("favorite flag not applied")
	}

	rec, _ = doJSON(t, router, "DELETE", "/terms/"+term.ID.String(), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: status %d", rec.Code)
	}

	rec, _ = doJSON(t, router, "GET", "/terms/"+term.ID.String(), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete: status %d, want 404", rec.Code)
	}
}

func TestTermEndpointRejectsBadID(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	rec, _ := doJSON(t, router, "GET", "/terms/not-a-uuid", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	rec, _ = doJSON(t, router, "GET", "/terms/"+uuid.NewString(), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestListTermsEndpoint(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	root := createCategory(t, router, "root", nil)
	child := createCategory(t, router, "child", &root)
	createTerm(t, router, root, "r1")
	createTerm(t, router, child, "c1")

	rec, env := doJSON(t, router, "GET", "/terms?category="+root, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var terms []*models.Term
	if err := json.Unmarshal(env.Data, &terms); err != nil {
		t.Fatalf("decoding terms: %v", err)
	}
	if len(terms) != 1 {
		t.Errorf("direct listing returned %d terms, want 1", len(terms))
	}

	rec, env = doJSON(t, router, "GET", "/terms?category="+root+"&include_descendants=true", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if err := json.Unmarshal(env.Data, &terms); err != nil {
		t.Fatalf("decoding terms: %v", err)
	}
	if len(terms) != 2 {
		t.Errorf("subtree listing returned %d terms, want 2", len(terms))
	}

	rec, _ = doJSON(t, router, "GET", "/terms", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing category param: status = %d, want 400", rec.Code)
	}
}

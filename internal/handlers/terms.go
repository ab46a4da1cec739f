package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/kotoba-study/kotoba-api/internal/models"
	"github.com/kotoba-study/kotoba-api/internal/request"
	"github.com/kotoba-study/kotoba-api/internal/services/activity"
	"github.com/kotoba-study/kotoba-api/internal/services/catalog"
	"github.com/kotoba-study/kotoba-api/internal/validation"
	"go.uber.org/zap"
)

// TermHandler handles term-related requests. Successful term creation is
// tracked through the activity aggregator; a failed tracking write degrades
// to a warning in the response rather than failing the creation.
type TermHandler struct {
	catalog  *catalog.Service
	activity *activity.Service
	logger   *zap.Logger
}

// NewTermHandler creates a new term handler
func NewTermHandler(catalogSvc *catalog.Service, activitySvc *activity.Service, logger *zap.Logger) *TermHandler {
	return &TermHandler{catalog: catalogSvc, activity: activitySvc, logger: logger}
}

// RegisterRoutes registers term routes on the given router.
// The router should already have the /terms prefix.
func (h *TermHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListTerms).Methods("GET")
	r.HandleFunc("", h.CreateTerm).Methods("POST")
	r.HandleFunc("/{id}", h.GetTerm).Methods("GET")
	r.HandleFunc("/{id}", h.UpdateTerm).Methods("PATCH")
	r.HandleFunc("/{id}", h.DeleteTerm).Methods("DELETE")
}

// CreateTermRequest represents a create term request
type CreateTermRequest struct {
	Term        string `json:"term" validate:"required,min=1,max=500"`
	Meaning     string `json:"meaning" validate:"required,min=1,max=2000"`
	Example     string `json:"example" validate:"max=2000"`
	CategoryKey string `json:"category_key" validate:"required"`
	IsFavorite  bool   `json:"is_favorite"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
}

// UpdateTermRequest represents a partial term update
type UpdateTermRequest struct {
	Term        *string `json:"term,omitempty"`
	Meaning     *string `json:"meaning,omitempty"`
	Example     *string `json:"example,omitempty"`
	CategoryKey *string `json:"category_key,omitempty"`
	IsFavorite  *bool   `json:"is_favorite,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
}

// CreateTermResponse carries the new term and an optional statistics warning
type CreateTermResponse struct {
	Term    *models.Term `json:"term"`
	Warning string       `json:"warning,omitempty"`
}

// ListTerms lists terms under a category, optionally including descendants
func (h *TermHandler) ListTerms(w http.ResponseWriter, r *http.Request) {
	categoryKey := r.URL.Query().Get("category")
	if categoryKey == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "category query parameter is required")
		return
	}

	terms, err := h.catalog.ListTerms(r.Context(), catalog.ListTermsInput{
		CategoryKey:        categoryKey,
		IncludeDescendants: request.BoolParam(r, "include_descendants"),
		FavoritesOnly:      request.BoolParam(r, "favorites"),
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, terms)
}

// CreateTerm creates a new term and records an add_term activity
func (h *TermHandler) CreateTerm(w http.ResponseWriter, r *http.Request) {
	var req CreateTermRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := validation.Validate.Struct(req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Validation failed: %s", validationErrors[0].Error()))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Validation failed")
		return
	}

	term, err := h.catalog.CreateTerm(r.Context(), catalog.CreateTermInput{
		Text:        validation.SanitizeText(req.Term),
		Meaning:     validation.SanitizeText(req.Meaning),
		Example:     validation.SanitizeText(req.Example),
		CategoryKey: req.CategoryKey,
		IsFavorite:  req.IsFavorite,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response := CreateTermResponse{Term: term}
	if _, err := h.activity.LogActivity(r.Context(), activity.LogInput{
		Type:        models.ActivityAddTerm,
		CategoryKey: term.CategoryKey,
	}); err != nil {
		// The term exists; only the tracking write is stale
		h.logger.Warn("add_term_activity_not_recorded",
			zap.String("term_id", term.ID.String()),
			zap.Error(err),
		)
		response.Warning = "term created but activity tracking failed; statistics may be stale"
	}

	respondJSON(w, http.StatusCreated, response)
}

// GetTerm retrieves a term by id
func (h *TermHandler) GetTerm(w http.ResponseWriter, r *http.Request) {
	id, ok := termID(w, r)
	if !ok {
		return
	}

	term, err := h.catalog.GetTerm(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, term)
}

// UpdateTerm applies field edits to a term
func (h *TermHandler) UpdateTerm(w http.ResponseWriter, r *http.Request) {
	id, ok := termID(w, r)
	if !ok {
		return
	}

	var req UpdateTermRequest
	if !decodeBody(w, r, &req) {
		return
	}

	term, err := h.catalog.UpdateTerm(r.Context(), id, catalog.UpdateTermInput{
		Text:        req.Term,
		Meaning:     req.Meaning,
		Example:     req.Example,
		CategoryKey: req.CategoryKey,
		IsFavorite:  req.IsFavorite,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, term)
}

// DeleteTerm removes a term
func (h *TermHandler) DeleteTerm(w http.ResponseWriter, r *http.Request) {
	id, ok := termID(w, r)
	if !ok {
		return
	}

	if err := h.catalog.DeleteTerm(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func termID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid term ID")
		return uuid.Nil, false
	}
	return id, true
}

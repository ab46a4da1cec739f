package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/kotoba-study/kotoba-api/internal/apperrors"
	"github.com/kotoba-study/kotoba-api/internal/models"
	"github.com/kotoba-study/kotoba-api/internal/services/review"
	"github.com/kotoba-study/kotoba-api/internal/validation"
)

// ReviewHandler handles review session requests
type ReviewHandler struct {
	review *review.Service
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviewSvc *review.Service) *ReviewHandler {
	return &ReviewHandler{review: reviewSvc}
}

// RegisterRoutes registers review routes on the given router.
// The router should already have the /review prefix.
func (h *ReviewHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/session", h.StartSession).Methods("POST")
	r.HandleFunc("/result", h.SubmitResult).Methods("POST")
}

// StartSessionRequest represents a start session request
type StartSessionRequest struct {
	CategoryKey        string `json:"category_key" validate:"required"`
	IncludeDescendants bool   `json:"include_descendants"`
	FavoritesOnly      bool   `json:"favorites_only"`
	Limit              int    `json:"limit" validate:"omitempty,min=1,max=100"`
}

// StartSession deals a shuffled session of cards from a category
func (h *ReviewHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
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

	session, err := h.review.Start(r.Context(), review.StartInput{
		CategoryKey:        req.CategoryKey,
		IncludeDescendants: req.IncludeDescendants,
		FavoritesOnly:      req.FavoritesOnly,
		Limit:              req.Limit,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, session)
}

// SubmitResultRequest represents a graded card
type SubmitResultRequest struct {
	TermID  string `json:"term_id" validate:"required,uuid"`
	Correct *bool  `json:"correct" validate:"required"`
}

// SubmitResultResponse carries the review log and an optional warning
type SubmitResultResponse struct {
	Log     *models.ActivityLog `json:"log"`
	Warning string              `json:"warning,omitempty"`
}

// SubmitResult records one graded answer
func (h *ReviewHandler) SubmitResult(w http.ResponseWriter, r *http.Request) {
	var req SubmitResultRequest
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

	termID, err := uuid.Parse(req.TermID)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "term_id must be a valid UUID")
		return
	}

	log, err := h.review.Submit(r.Context(), review.SubmitInput{
		TermID:  termID,
		Correct: *req.Correct,
	})
	if err != nil {
		var partial *apperrors.PartialFailure
		if errors.As(err, &partial) && log != nil {
			respondJSON(w, http.StatusCreated, SubmitResultResponse{
				Log:     log,
				Warning: "answer recorded but daily summary update failed; statistics may be stale",
			})
			return
		}
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, SubmitResultResponse{Log: log})
}

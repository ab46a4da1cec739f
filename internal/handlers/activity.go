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
	"github.com/kotoba-study/kotoba-api/internal/request"
	"github.com/kotoba-study/kotoba-api/internal/services/activity"
	"github.com/kotoba-study/kotoba-api/internal/validation"
)

// ActivityHandler handles activity log and daily summary requests
type ActivityHandler struct {
	activity *activity.Service
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(activitySvc *activity.Service) *ActivityHandler {
	return &ActivityHandler{activity: activitySvc}
}

// RegisterRoutes registers activity routes on the given router.
// The router should already have the /activity prefix.
func (h *ActivityHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/logs", h.LogActivity).Methods("POST")
	r.HandleFunc("/logs", h.ListLogs).Methods("GET")
	r.HandleFunc("/summary/{date}", h.GetDailySummary).Methods("GET")
}

// LogActivityRequest represents a log activity request. Payload fields are
// required per type: duration_minutes for study, term_id/correct for review.
type LogActivityRequest struct {
	Type            string  `json:"type" validate:"required,activity_type"`
	CategoryKey     string  `json:"category_key" validate:"required"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
	TermID          *string `json:"term_id,omitempty"`
	Correct         *bool   `json:"correct,omitempty"`
}

// LogActivityResponse carries the new log and an optional statistics warning
type LogActivityResponse struct {
	Log     *models.ActivityLog `json:"log"`
	Warning string              `json:"warning,omitempty"`
}

// LogActivity appends one activity event and updates the daily summary
func (h *ActivityHandler) LogActivity(w http.ResponseWriter, r *http.Request) {
	var req LogActivityRequest
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

	in, err := buildLogInput(req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log, err := h.activity.LogActivity(r.Context(), in)
	if err != nil {
		// The log may still have been written; a partial failure returns it
		// along with a warning instead of discarding the result.
		var partial *apperrors.PartialFailure
		if errors.As(err, &partial) && log != nil {
			respondJSON(w, http.StatusCreated, LogActivityResponse{
				Log:     log,
				Warning: "activity recorded but daily summary update failed; statistics may be stale",
			})
			return
		}
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, LogActivityResponse{Log: log})
}

// ListLogs returns logs for one date (?date=) or an inclusive range
// (?start=&end=), newest first
func (h *ActivityHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("date") != "" {
		date, err := request.DateParam(r, "date")
		if err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		logs, err := h.activity.FetchLogsByDate(r.Context(), date)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, logs)
		return
	}

	start, err := request.DateParam(r, "start")
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	end, err := request.DateParam(r, "end")
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	logs, err := h.activity.FetchLogs(r.Context(), start, end)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, logs)
}

// GetDailySummary returns the daily summary for one date
func (h *ActivityHandler) GetDailySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.activity.FetchDailySummary(r.Context(), mux.Vars(r)["date"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func buildLogInput(req LogActivityRequest) (activity.LogInput, error) {
	in := activity.LogInput{
		Type:        models.ActivityType(req.Type),
		CategoryKey: req.CategoryKey,
	}

	switch in.Type {
	case models.ActivityStudy:
		if req.DurationMinutes == nil {
			return in, apperrors.Validationf("duration_minutes", "required for study events")
		}
		in.Study = &models.StudyPayload{DurationMinutes: *req.DurationMinutes}
	case models.ActivityReview:
		if req.TermID == nil || req.Correct == nil {
			return in, apperrors.Validationf("payload", "term_id and correct are required for review events")
		}
		termID, err := uuid.Parse(*req.TermID)
		if err != nil {
			return in, apperrors.Validationf("term_id", "must be a valid UUID")
		}
		in.Review = &models.ReviewPayload{TermID: termID, Correct: *req.Correct}
	}
	return in, nil
}

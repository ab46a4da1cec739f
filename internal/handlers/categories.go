package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/kotoba-study/kotoba-api/internal/models"
	"github.com/kotoba-study/kotoba-api/internal/services/catalog"
	"github.com/kotoba-study/kotoba-api/internal/validation"
)

// CategoryHandler handles category-related requests
type CategoryHandler struct {
	catalog *catalog.Service
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(catalogSvc *catalog.Service) *CategoryHandler {
	return &CategoryHandler{catalog: catalogSvc}
}

// RegisterRoutes registers category routes on the given router.
// The router should already have the /categories prefix.
func (h *CategoryHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListCategories).Methods("GET")
	r.HandleFunc("", h.CreateCategory).Methods("POST")
	r.HandleFunc("/{key}", h.GetCategory).Methods("GET")
	r.HandleFunc("/{key}", h.UpdateCategory).Methods("PATCH")
	r.HandleFunc("/{key}", h.DeleteCategory).Methods("DELETE")
	r.HandleFunc("/{key}/favorite", h.ToggleFavorite).Methods("POST")
	r.HandleFunc("/{key}/move", h.MoveCategory).Methods("POST")
	r.HandleFunc("/{key}/descendants", h.GetDescendants).Methods("GET")
	r.HandleFunc("/{key}/path", h.GetPath).Methods("GET")
}

// MaxCategoryNameLength is the maximum length for category names
const MaxCategoryNameLength = 100

// CreateCategoryRequest represents a create category request
type CreateCategoryRequest struct {
	Name         string  `json:"name" validate:"required,min=1,max=100"`
	Icon         string  `json:"icon" validate:"max=16"`
	Color        string  `json:"color" validate:"hex_color"`
	ParentKey    *string `json:"parent_key,omitempty"`
	DisplayOrder int     `json:"display_order"`
}

// UpdateCategoryRequest represents a partial category update
type UpdateCategoryRequest struct {
	Name         *string `json:"name,omitempty"`
	Icon         *string `json:"icon,omitempty"`
	Color        *string `json:"color,omitempty"`
	DisplayOrder *int    `json:"display_order,omitempty"`
}

// ToggleFavoriteRequest carries the target favorite value
type ToggleFavoriteRequest struct {
	Value bool `json:"value"`
}

// MoveCategoryRequest carries the new parent; null moves to root
type MoveCategoryRequest struct {
	ParentKey *string `json:"parent_key"`
}

// ListCategories lists all categories in display order
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

// CreateCategory creates a new category
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
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

	req.Name = validation.SanitizeText(req.Name)

	category, err := h.catalog.CreateCategory(r.Context(), catalog.CreateCategoryInput{
		Name:         req.Name,
		Icon:         req.Icon,
		Color:        req.Color,
		ParentKey:    req.ParentKey,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, category)
}

// GetCategory retrieves a category by key
func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	category, err := h.catalog.GetCategory(r.Context(), mux.Vars(r)["key"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, category)
}

// UpdateCategory applies rename/recolor/re-icon/reorder edits
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req UpdateCategoryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Name != nil {
		sanitized := validation.SanitizeText(*req.Name)
		if len(sanitized) > MaxCategoryNameLength {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Name exceeds maximum length of %d characters", MaxCategoryNameLength))
			return
		}
		req.Name = &sanitized
	}

	category, err := h.catalog.UpdateCategory(r.Context(), mux.Vars(r)["key"], catalog.UpdateCategoryInput{
		Name:         req.Name,
		Icon:         req.Icon,
		Color:        req.Color,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, category)
}

// DeleteCategory removes a category subtree and its terms
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	result, err := h.catalog.DeleteCategory(r.Context(), mux.Vars(r)["key"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// ToggleFavoriteResponse reports how many categories a toggle touched
type ToggleFavoriteResponse struct {
	Favorite bool `json:"favorite"`
	Updated  int  `json:"updated"`
}

// ToggleFavorite sets the favorite flag on the category and all descendants
func (h *CategoryHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	var req ToggleFavoriteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	count, err := h.catalog.ToggleFavorite(r.Context(), mux.Vars(r)["key"], req.Value)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ToggleFavoriteResponse{Favorite: req.Value, Updated: count})
}

// MoveCategory reparents a category
func (h *CategoryHandler) MoveCategory(w http.ResponseWriter, r *http.Request) {
	var req MoveCategoryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	category, err := h.catalog.MoveCategory(r.Context(), mux.Vars(r)["key"], req.ParentKey)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, category)
}

// GetDescendants returns every category below the given one
func (h *CategoryHandler) GetDescendants(w http.ResponseWriter, r *http.Request) {
	descendants, err := h.catalog.Descendants(r.Context(), mux.Vars(r)["key"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, descendants)
}

// PathResponse carries the ancestor chain and its breadcrumb string
type PathResponse struct {
	Path       []*models.Category `json:"path"`
	Breadcrumb string             `json:"breadcrumb"`
}

// GetPath returns the root-to-category chain for breadcrumb display
func (h *CategoryHandler) GetPath(w http.ResponseWriter, r *http.Request) {
	path, breadcrumb, err := h.catalog.Path(r.Context(), mux.Vars(r)["key"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, PathResponse{Path: path, Breadcrumb: breadcrumb})
}

// decodeBody decodes a JSON request body, responding itself on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return false
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return false
	}
	return true
}

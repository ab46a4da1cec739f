package models

import (
	"time"

	"github.com/google/uuid"
)

// Term is a single study term filed under one category. The favorite flag is
// independent of category favorite propagation: toggling a category favorite
// never touches term records.
type Term struct {
	ID          uuid.UUID `json:"id"`
	Text        string    `json:"term"`
	Meaning     string    `json:"meaning"`
	Example     string    `json:"example,omitempty"`
	CategoryKey string    `json:"category_key"`
	IsFavorite  bool      `json:"is_favorite"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

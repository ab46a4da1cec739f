package models

import (
	"time"
)

// Category is a node in the user-editable category forest. Categories are keyed
// by a slug derived from the name at creation time; the key is stable across
// renames. ParentKey is nil for root categories.
type Category struct {
	Key          string    `json:"key"`
	Name         string    `json:"name"`
	Icon         string    `json:"icon,omitempty"`
	Color        string    `json:"color,omitempty"`
	ParentKey    *string   `json:"parent_key,omitempty"`
	IsFavorite   bool      `json:"is_favorite"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsRoot reports whether the category has no parent.
func (c *Category) IsRoot() bool {
	return c.ParentKey == nil || *c.ParentKey == ""
}

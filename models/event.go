package models

import (
	"time"

	"github.com/google/uuid"
)

// Event represents a row in the events table.
type Event struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	EventDate   *string   `json:"event_date,omitempty"` // DATE column, YYYY-MM-DD
	Location    *string   `json:"location,omitempty"`
	ImagePath   *string   `json:"image_path,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Challenge represents a row in the challenges table.
type Challenge struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	StartDate   *string   `json:"start_date,omitempty"` // DATE column, YYYY-MM-DD
	EndDate     *string   `json:"end_date,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

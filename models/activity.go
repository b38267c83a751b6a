package models

import (
	"time"

	"github.com/google/uuid"
)

// Activity represents a scheduled PT activity in the activities table.
type Activity struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Description  *string    `json:"description,omitempty"`
	Location     *string    `json:"location,omitempty"`
	ActivityDate *string    `json:"activity_date,omitempty"` // DATE column, YYYY-MM-DD
	StartTime    *string    `json:"start_time,omitempty"`    // TIME column, HH:MM
	EndTime      *string    `json:"end_time,omitempty"`
	Capacity     *int       `json:"capacity,omitempty"` // Nullable INTEGER
	CreatedBy    *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

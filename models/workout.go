package models

import (
	"time"

	"github.com/google/uuid"
)

// Workout represents a row in the workouts table.
type Workout struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Description     *string   `json:"description,omitempty"`
	WorkoutType     string    `json:"workout_type"`
	ScheduledDate   *string   `json:"scheduled_date,omitempty"` // DATE column, YYYY-MM-DD
	DurationMinutes *int      `json:"duration_minutes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

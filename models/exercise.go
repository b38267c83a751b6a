package models

import (
	"time"

	"github.com/google/uuid"
)

// Exercise represents a row in the exercises table.
type Exercise struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Description  *string   `json:"description,omitempty"` // Use a pointer for nullable TEXT fields
	ExerciseType string    `json:"exercise_type"`
	Gender       string    `json:"gender"`
	Equipment    *string   `json:"equipment,omitempty"`
	VideoPath    *string   `json:"video_path,omitempty"`
	ImagePath    *string   `json:"image_path,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

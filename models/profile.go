package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile represents a row in the profiles table. Rows are provisioned by
// the auth provider; this API only reads and mutates them.
type Profile struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	FullName   *string   `json:"full_name,omitempty"`
	Role       string    `json:"role"`
	Gender     *string   `json:"gender,omitempty"`
	AvatarPath *string   `json:"avatar_path,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

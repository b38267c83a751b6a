package models

import (
	"time"

	"github.com/google/uuid"
)

// Participant status values. Approval is the only transition this API
// performs; it is one-way.
const (
	ParticipantPending   = "pending"
	ParticipantOnboarded = "onboarded"
	ParticipantWithdrawn = "withdrawn"
	ParticipantRejected  = "rejected"
)

// ChallengeParticipant links a user profile to a challenge.
type ChallengeParticipant struct {
	ID          uuid.UUID           `json:"id"`
	ChallengeID uuid.UUID           `json:"challenge_id"`
	UserID      uuid.UUID           `json:"user_id"`
	Status      string              `json:"status"`
	StartDate   *string             `json:"start_date,omitempty"` // DATE column, stamped at approval
	Profile     *ParticipantProfile `json:"profiles,omitempty"`   // embedded join from profiles
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// ParticipantProfile carries the profile fields embedded in participant
// listings.
type ParticipantProfile struct {
	FullName *string `json:"full_name,omitempty"`
	Email    string  `json:"email"`
}

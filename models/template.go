package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// WorkoutTemplate is the per-admin workout template. At most one row per
// admin is maintained through the upsert in the template handlers; when
// stale duplicates exist the most recently updated row wins.
type WorkoutTemplate struct {
	ID           uuid.UUID       `json:"id"`
	AdminID      uuid.UUID       `json:"admin_id"`
	Title        string          `json:"title"`
	TemplateData json.RawMessage `json:"template_data"` // JSONB, ordered entry list
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

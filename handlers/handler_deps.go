package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	supa "github.com/supabase-community/supabase-go"

	"omrhub/admin-api/config"
)

var validate = validator.New()

// ApplicationHandler holds shared dependencies for handlers.
type ApplicationHandler struct {
	DB     *supa.Client
	Logger *logrus.Logger
	Config *config.Config
}

// NewApplicationHandler creates an ApplicationHandler with the given
// dependencies.
func NewApplicationHandler(db *supa.Client, logger *logrus.Logger, cfg *config.Config) *ApplicationHandler {
	return &ApplicationHandler{
		DB:     db,
		Logger: logger,
		Config: cfg,
	}
}

// shortDiag trims a backend error to a short diagnostic string that is safe
// to surface to the caller. The full error is always logged server-side.
func shortDiag(err error) string {
	msg := err.Error()
	if len(msg) > 120 {
		msg = msg[:120]
	}
	return msg
}

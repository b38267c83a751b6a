package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	supa "github.com/supabase-community/supabase-go"

	"omrhub/admin-api/config"
	"omrhub/admin-api/models"
	"omrhub/admin-api/utils"
)

const localsKeyAdmin = "admin_identity"

// AdminIdentity is the resolved caller of a privileged handler. Its ID is
// the profile ID used for ownership-scoped queries.
type AdminIdentity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ErrMissingToken is returned when the Authorization header is absent.
var ErrMissingToken = errors.New("missing bearer token")

// ErrInvalidToken wraps parsing/validation errors.
var ErrInvalidToken = errors.New("invalid bearer token")

// SetAdmin stores the resolved identity on the request.
func SetAdmin(c *fiber.Ctx, identity *AdminIdentity) {
	c.Locals(localsKeyAdmin, identity)
}

// AdminFrom returns the identity stored by RequireAdmin, or nil when the
// request never passed the guard.
func AdminFrom(c *fiber.Ctx) *AdminIdentity {
	identity, _ := c.Locals(localsKeyAdmin).(*AdminIdentity)
	return identity
}

// RequireAdmin guards privileged routes. It validates the bearer token,
// resolves the caller's profile and fails closed unless the profile role is
// admin. The resolved identity is stored in locals for handlers.
func RequireAdmin(db *supa.Client, cfg *config.Config, log *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		subject, err := parseBearer(c.Get(fiber.HeaderAuthorization), cfg)
		if err != nil {
			log.WithField("error", err.Error()).Warn("Rejected unauthenticated request")
			return utils.RespondWithError(c, fiber.StatusUnauthorized, "authentication required")
		}

		var profile models.Profile
		_, err = db.From("profiles").
			Select("id,email,full_name,role", "", false).
			Eq("id", subject).
			Single().
			ExecuteTo(&profile)
		if err != nil {
			log.WithFields(logrus.Fields{"subject": subject, "error": err.Error()}).
				Warn("Could not resolve profile for bearer token")
			return utils.RespondWithError(c, fiber.StatusUnauthorized, "authentication required")
		}

		if profile.Role != "admin" {
			log.WithFields(logrus.Fields{"subject": subject, "role": profile.Role}).
				Warn("Rejected non-admin caller")
			return utils.RespondWithError(c, fiber.StatusForbidden, "admin access required")
		}

		SetAdmin(c, &AdminIdentity{
			ID:    profile.ID.String(),
			Email: profile.Email,
			Role:  profile.Role,
		})
		return c.Next()
	}
}

// parseBearer validates the Authorization header and returns the token
// subject (the caller's profile ID).
func parseBearer(header string, cfg *config.Config) (string, error) {
	if header == "" {
		return "", ErrMissingToken
	}
	raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if raw == "" || raw == header {
		return "", ErrMissingToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
	}
	if cfg.JWTIssuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.JWTIssuer))
	}

	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(cfg.JWTSecret), nil
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	subject, err := parsed.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", ErrInvalidToken
	}
	return subject, nil
}

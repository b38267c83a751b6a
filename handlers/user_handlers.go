package handlers

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/supabase-community/postgrest-go"

	"omrhub/admin-api/models"
	"omrhub/admin-api/utils"
)

// User handlers operate on the profiles table. Profiles are provisioned by
// the auth provider, so there is no create route; admins can list, inspect,
// update and remove them.

// ListUsers handles GET /api/admin/users.
func (h *ApplicationHandler) ListUsers(c *fiber.Ctx) error {
	body, _, err := h.DB.From("profiles").
		Select("*", "", false).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		h.Logger.Errorf("Error fetching profiles: %v", err)
		return utils.RespondWithErrorDetails(c, fiber.StatusInternalServerError, "could not retrieve users", shortDiag(err))
	}

	var users []models.Profile
	if err := json.Unmarshal(body, &users); err != nil {
		h.Logger.Errorf("Error unmarshalling profiles: %v", err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "could not process users data")
	}
	if users == nil {
		users = []models.Profile{}
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"users": users})
}

// GetUser handles GET /api/admin/users/:id.
func (h *ApplicationHandler) GetUser(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid user ID format")
	}

	body, _, err := h.DB.From("profiles").
		Select("*", "", false).
		Eq("id", userID.String()).
		Execute()
	if err != nil {
		h.Logger.Errorf("Error fetching profile %s: %v", userID, err)
		return utils.RespondWithErrorDetails(c, fiber.StatusInternalServerError, "could not retrieve user", shortDiag(err))
	}

	var users []models.Profile
	if err := json.Unmarshal(body, &users); err != nil {
		h.Logger.Errorf("Error unmarshalling profile %s: %v", userID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "could not process user data")
	}
	if len(users) == 0 {
		return utils.RespondWithError(c, fiber.StatusNotFound, "user not found")
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"user": users[0]})
}

// UpdateUser handles PATCH /api/admin/users/:id. Role changes go through
// here as well.
func (h *ApplicationHandler) UpdateUser(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid user ID format")
	}

	var payload map[string]interface{}
	if err := c.BodyParser(&payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid request body")
	}

	updates := make(map[string]interface{})
	for _, step := range []error{
		applyString(updates, payload, "role"),
		applyNullableString(updates, payload, "full_name"),
		applyNullableString(updates, payload, "gender"),
		applyNullableString(updates, payload, "avatar_path"),
	} {
		if step != nil {
			return utils.RespondWithError(c, fiber.StatusBadRequest, step.Error())
		}
	}
	updates["updated_at"] = time.Now()

	body, count, err := h.DB.From("profiles").
		Update(updates, "representation", "exact").
		Eq("id", userID.String()).
		Execute()
	if err != nil {
		h.Logger.Errorf("Error updating profile %s: %v", userID, err)
		return utils.RespondWithErrorDetails(c, fiber.StatusInternalServerError, "could not update user", shortDiag(err))
	}
	if count == 0 {
		return utils.RespondWithError(c, fiber.StatusNotFound, "user not found")
	}

	var updated []models.Profile
	if err := json.Unmarshal(body, &updated); err != nil || len(updated) == 0 {
		h.Logger.Errorf("Error unmarshalling updated profile %s: %v", userID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "could not process user update response")
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"user": updated[0]})
}

// DeleteUser handles DELETE /api/admin/users/:id.
func (h *ApplicationHandler) DeleteUser(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid user ID format")
	}

	_, count, err := h.DB.From("profiles").
		Delete("", "exact").
		Eq("id", userID.String()).
		Execute()
	if err != nil {
		h.Logger.Errorf("Error deleting profile %s: %v", userID, err)
		return utils.RespondWithErrorDetails(c, fiber.StatusInternalServerError, "could not delete user", shortDiag(err))
	}
	if count == 0 {
		return utils.RespondWithError(c, fiber.StatusNotFound, "user not found")
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

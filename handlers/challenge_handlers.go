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

// CreateChallengeRequest defines the expected request body for creating a
// challenge.
type CreateChallengeRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description,omitempty"`
	StartDate   *string `json:"start_date,omitempty"`
	EndDate     *string `json:"end_date,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// ListChallenges handles GET /api/admin/challenges.
func (h *ApplicationHandler) ListChallenges(c *fiber.Ctx) error {
	body, _, err := h.DB.From("challenges").
		Select("*", "", false).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		h.Logger.Errorf("Error fetching challenges: %v", err)
		return utils.RespondWithErrorDetails(c, fiber.StatusInternalServerError, "could not retrieve challenges", shortDiag(err))
	}

	var challenges []models.Challenge
	if err := json.Unmarshal(body, &challenges); err != nil {
		h.Logger.Errorf("Error unmarshalling challenges: %v", err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "could not process challenges data")
	}
	if challenges == nil {
		challenges = []models.Challenge{}
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"challenges": challenges})
}

// GetChallenge handles GET /api/admin/challenges/:id.
func (h *ApplicationHandler) GetChallenge(c *fiber.Ctx) error {
	challengeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid challenge ID format")
	}

	body, _, err := h.DB.From("challenges").
		Select("*", "", false).
		Eq("id", challengeID.String()).
		Execute()
	if err != nil {
		h.Logger.Errorf("Error fetching challenge %s: %v", challengeID, err)
		return utils.RespondWithErrorDetails(c, fiber.StatusInternalServerError, "could not retrieve challenge", shortDiag(err))
	}

	var challenges []models.Challenge
	if err := json.Unmarshal(body, &challenges); err != nil {
		h.Logger.Errorf("Error unmarshalling challenge %s: %v", challengeID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "could not process challenge data")
	}
	if len(challenges) == 0 {
		return utils.RespondWithError(c, fiber.StatusNotFound, "challenge not found")
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"challenge": challenges[0]})
}

// CreateChallenge handles POST /api/admin/challenges.
func (h *ApplicationHandler) CreateChallenge(c *fiber.Ctx) error {
	payload := new(CreateChallengeRequest)
	if err := c.BodyParser(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, utils.FormatValidationErrors(err))
	}

	now := time.Now()
	row := map[string]interface{}{
		"title":      payload.Title,
		"is_active":  true,
		"created_at": now,
		"updated_at": now,
	}
	if payload.IsActive != nil {
		row["is_active"] = *payload.IsActive
	}
	if payload.Description != nil {
		row["description"] = *payload.Description
	}
	if payload.StartDate != nil {
		row["start_date"] = *payload.StartDate
	}
	if payload.EndDate != nil {
		row["end_date"] = *payload.EndDate
	}

	body, _, err := h.DB.From("challenges").
		Insert(row, false, "", "representation", "").
		Execute()
	if err != nil {
		h.Logger.Errorf("Error creating challenge: %v", err)
		return utils.RespondWithErrorDetails(c, fiber.StatusInternalServerError, "could not create challenge", shortDiag(err))
	}

	var created []models.Challenge
	if err := json.Unmarshal(body, &created); err != nil || len(created) == 0 {
		h.Logger.Errorf("Error unmarshalling created challenge: %v, body: %s", err, string(body))
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "failed to confirm challenge creation")
	}

	h.Logger.Infof("Created challenge %s", created[0].ID)
	return utils.RespondWithJSON(c, fiber.StatusCreated, fiber.Map{"challenge": created[0]})
}

// UpdateChallenge handles PATCH /api/admin/challenges/:id.
func (h *ApplicationHandler) UpdateChallenge(c *fiber.Ctx) error {
	challengeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid challenge ID format")
	}

	var payload map[string]interface{}
	if err := c.BodyParser(&payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid request body")
	}

	updates := make(map[string]interface{})
	for _, step := range []error{
		applyString(updates, payload, "title"),
		applyNullableString(updates, payload, "description"),
		applyNullableString(updates, payload, "start_date"),
		applyNullableString(updates, payload, "end_date"),
		applyBool(updates, payload, "is_active"),
	} {
		if step != nil {
			return utils.RespondWithError(c, fiber.StatusBadRequest, step.Error())
		}
	}
	updates["updated_at"] = time.Now()

	body, count, err := h.DB.From("challenges").
		Update(updates, "representation", "exact").
		Eq("id", challengeID.String()).
		Execute()
	if err != nil {
		h.Logger.Errorf("Error updating challenge %s: %v", challengeID, err)
		return utils.RespondWithErrorDetails(c, fiber.StatusInternalServerError, "could not update challenge", shortDiag(err))
	}
	if count == 0 {
		return utils.RespondWithError(c, fiber.StatusNotFound, "challenge not found")
	}

	var updated []models.Challenge
	if err := json.Unmarshal(body, &updated); err != nil || len(updated) == 0 {
		h.Logger.Errorf("Error unmarshalling updated challenge %s: %v", challengeID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "could not process challenge update response")
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"challenge": updated[0]})
}

// DeleteChallenge handles DELETE /api/admin/challenges/:id.
func (h *ApplicationHandler) DeleteChallenge(c *fiber.Ctx) error {
	challengeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid challenge ID format")
	}

	_, count, err := h.DB.From("challenges").
		Delete("", "exact").
		Eq("id", challengeID.String()).
		Execute()
	if err != nil {
		h.Logger.Errorf("Error deleting challenge %s: %v", challengeID, err)
		return utils.RespondWithErrorDetails(c, fiber.StatusInternalServerError, "could not delete challenge", shortDiag(err))
	}
	if count == 0 {
		return utils.RespondWithError(c, fiber.StatusNotFound, "challenge not found")
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

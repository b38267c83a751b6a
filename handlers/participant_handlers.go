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

// ListParticipants handles GET /api/admin/challenges/:id/participants.
// Participant rows are joined with the enrolled user's profile fields.
func (h *ApplicationHandler) ListParticipants(c *fiber.Ctx) error {
	challengeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid challenge ID format")
	}

	query := h.DB.From("challenge_participants").
		Select("*,profiles(full_name,email)", "", false).
		Eq("challenge_id", challengeID.String())
	if status := c.Query("status"); status != "" {
		query = query.Eq("status", status)
	}

	body, _, err := query.Order("created_at", &postgrest.OrderOpts{Ascending: true}).Execute()
	if err != nil {
		h.Logger.Errorf("Error fetching participants for challenge %s: %v", challengeID, err)
		return utils.RespondWithErrorDetails(c, fiber.StatusInternalServerError, "could not retrieve participants", shortDiag(err))
	}

	var participants []models.ChallengeParticipant
	if err := json.Unmarshal(body, &participants); err != nil {
		h.Logger.Errorf("Error unmarshalling participants for challenge %s: %v", challengeID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "could not process participants data")
	}
	if participants == nil {
		participants = []models.ChallengeParticipant{}
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"participants": participants})
}

// ApproveParticipant handles POST /api/admin/challenges/:id/participants/:participantId/approve.
//
// The update matches on both the participant ID and the parent challenge ID,
// so an enrollment ID belonging to a different challenge cannot be approved
// through this route. Approval sets the status to onboarded and stamps the
// start date with the current date; any date on the enrollment record or in
// the request is ignored. The transition is one-way.
func (h *ApplicationHandler) ApproveParticipant(c *fiber.Ctx) error {
	challengeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid challenge ID format")
	}
	participantID, err := uuid.Parse(c.Params("participantId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid participant ID format")
	}

	updates := map[string]interface{}{
		"status":     models.ParticipantOnboarded,
		"start_date": time.Now().Format("2006-01-02"),
		"updated_at": time.Now(),
	}

	body, count, err := h.DB.From("challenge_participants").
		Update(updates, "representation", "exact").
		Eq("id", participantID.String()).
		Eq("challenge_id", challengeID.String()).
		Execute()
	if err != nil {
		h.Logger.Errorf("Error approving participant %s in challenge %s: %v", participantID, challengeID, err)
		return utils.RespondWithErrorDetails(c, fiber.StatusInternalServerError, "could not approve participant", shortDiag(err))
	}
	if count == 0 {
		return utils.RespondWithError(c, fiber.StatusNotFound, "participant not found in challenge")
	}

	var updated []models.ChallengeParticipant
	if err := json.Unmarshal(body, &updated); err != nil || len(updated) == 0 {
		h.Logger.Errorf("Error unmarshalling approved participant %s: %v", participantID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "could not process approval response")
	}

	h.Logger.Infof("Approved participant %s in challenge %s", participantID, challengeID)
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"participant": updated[0]})
}

// RemoveParticipant handles DELETE /api/admin/challenges/:id/participants/:participantId.
// The delete is scoped to the parent challenge to prevent cross-challenge
// removal through ID reuse.
func (h *ApplicationHandler) RemoveParticipant(c *fiber.Ctx) error {
	challengeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid challenge ID format")
	}
	participantID, err := uuid.Parse(c.Params("participantId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid participant ID format")
	}

	_, count, err := h.DB.From("challenge_participants").
		Delete("", "exact").
		Eq("id", participantID.String()).
		Eq("challenge_id", challengeID.String()).
		Execute()
	if err != nil {
		h.Logger.Errorf("Error removing participant %s from challenge %s: %v", participantID, challengeID, err)
		return utils.RespondWithErrorDetails(c, fiber.StatusInternalServerError, "could not remove participant", shortDiag(err))
	}
	if count == 0 {
		return utils.RespondWithError(c, fiber.StatusNotFound, "participant not found in challenge")
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

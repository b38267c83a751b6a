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

// Exercise catalogue defaults. Omitted optional fields are written
// explicitly, never left undefined.
const (
	defaultExerciseType = "strength"
	defaultGender       = "both"
)

// CreateExerciseRequest defines the expected request body for creating an
// exercise. Title is required; everything else is optional and defaulted.
type CreateExerciseRequest struct {
	Title        string  `json:"title" validate:"required"`
	Description  *string `json:"description,omitempty"`
	ExerciseType *string `json:"exercise_type,omitempty"`
	Gender       *string `json:"gender,omitempty"`
	Equipment    *string `json:"equipment,omitempty"`
}

// ListExercises handles GET /api/admin/exercises.
func (h *ApplicationHandler) ListExercises(c *fiber.Ctx) error {
	query := h.DB.From("exercises").Select("*", "", false)
	if exerciseType := c.Query("exercise_type"); exerciseType != "" {
		query = query.Eq("exercise_type", exerciseType)
	}

	body, _, err := query.Order("created_at", &postgrest.OrderOpts{Ascending: false}).Execute()
	if err != nil {
		h.Logger.Errorf("Error fetching exercises: %v", err)
		return utils.RespondWithErrorDetails(c, fiber.StatusInternalServerError, "could not retrieve exercises", shortDiag(err))
	}

	var exercises []models.Exercise
	if err := json.Unmarshal(body, &exercises); err != nil {
		h.Logger.Errorf("Error unmarshalling exercises: %v", err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "could not process exercises data")
	}
	if exercises == nil {
		exercises = []models.Exercise{}
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"exercises": exercises})
}

// GetExercise handles GET /api/admin/exercises/:id.
func (h *ApplicationHandler) GetExercise(c *fiber.Ctx) error {
	exerciseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid exercise ID format")
	}

	body, _, err := h.DB.From("exercises").
		Select("*", "", false).
		Eq("id", exerciseID.String()).
		Execute()
	if err != nil {
		h.Logger.Errorf("Error fetching exercise %s: %v", exerciseID, err)
		return utils.RespondWithErrorDetails(c, fiber.StatusInternalServerError, "could not retrieve exercise", shortDiag(err))
	}

	var exercises []models.Exercise
	if err := json.Unmarshal(body, &exercises); err != nil {
		h.Logger.Errorf("Error unmarshalling exercise %s: %v", exerciseID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "could not process exercise data")
	}
	if len(exercises) == 0 {
		return utils.RespondWithError(c, fiber.StatusNotFound, "exercise not found")
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"exercise": exercises[0]})
}

// CreateExercise handles POST /api/admin/exercises.
func (h *ApplicationHandler) CreateExercise(c *fiber.Ctx) error {
	payload := new(CreateExerciseRequest)
	if err := c.BodyParser(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, utils.FormatValidationErrors(err))
	}

	now := time.Now()
	row := map[string]interface{}{
		"title":         payload.Title,
		"exercise_type": defaultExerciseType,
		"gender":        defaultGender,
		"created_at":    now,
		"updated_at":    now,
	}
	if payload.ExerciseType != nil {
		row["exercise_type"] = *payload.ExerciseType
	}
	if payload.Gender != nil {
		row["gender"] = *payload.Gender
	}
	if payload.Description != nil {
		row["description"] = *payload.Description
	}
	if payload.Equipment != nil {
		row["equipment"] = *payload.Equipment
	}

	body, _, err := h.DB.From("exercises").
		Insert(row, false, "", "representation", "").
		Execute()
	if err != nil {
		h.Logger.Errorf("Error creating exercise: %v", err)
		return utils.RespondWithErrorDetails(c, fiber.StatusInternalServerError, "could not create exercise", shortDiag(err))
	}

	var created []models.Exercise
	if err := json.Unmarshal(body, &created); err != nil || len(created) == 0 {
		h.Logger.Errorf("Error unmarshalling created exercise: %v, body: %s", err, string(body))
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "failed to confirm exercise creation")
	}

	h.Logger.Infof("Created exercise %s", created[0].ID)
	return utils.RespondWithJSON(c, fiber.StatusCreated, fiber.Map{"exercise": created[0]})
}

// UpdateExercise handles PATCH /api/admin/exercises/:id. Only fields present
// in the request body are written.
func (h *ApplicationHandler) UpdateExercise(c *fiber.Ctx) error {
	exerciseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid exercise ID format")
	}

	var payload map[string]interface{}
	if err := c.BodyParser(&payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid request body")
	}

	updates := make(map[string]interface{})
	for _, step := range []error{
		applyString(updates, payload, "title"),
		applyString(updates, payload, "exercise_type"),
		applyString(updates, payload, "gender"),
		applyNullableString(updates, payload, "description"),
		applyNullableString(updates, payload, "equipment"),
		applyNullableString(updates, payload, "video_path"),
		applyNullableString(updates, payload, "image_path"),
	} {
		if step != nil {
			return utils.RespondWithError(c, fiber.StatusBadRequest, step.Error())
		}
	}
	updates["updated_at"] = time.Now()

	body, count, err := h.DB.From("exercises").
		Update(updates, "representation", "exact").
		Eq("id", exerciseID.String()).
		Execute()
	if err != nil {
		h.Logger.Errorf("Error updating exercise %s: %v", exerciseID, err)
		return utils.RespondWithErrorDetails(c, fiber.StatusInternalServerError, "could not update exercise", shortDiag(err))
	}
	if count == 0 {
		return utils.RespondWithError(c, fiber.StatusNotFound, "exercise not found")
	}

	var updated []models.Exercise
	if err := json.Unmarshal(body, &updated); err != nil || len(updated) == 0 {
		h.Logger.Errorf("Error unmarshalling updated exercise %s: %v", exerciseID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "could not process exercise update response")
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"exercise": updated[0]})
}

// DeleteExercise handles DELETE /api/admin/exercises/:id. Deleting an ID
// that no longer exists reports not-found.
func (h *ApplicationHandler) DeleteExercise(c *fiber.Ctx) error {
	exerciseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid exercise ID format")
	}

	_, count, err := h.DB.From("exercises").
		Delete("", "exact").
		Eq("id", exerciseID.String()).
		Execute()
	if err != nil {
		h.Logger.Errorf("Error deleting exercise %s: %v", exerciseID, err)
		return utils.RespondWithErrorDetails(c, fiber.StatusInternalServerError, "could not delete exercise", shortDiag(err))
	}
	if count == 0 {
		return utils.RespondWithError(c, fiber.StatusNotFound, "exercise not found")
	}

	h.Logger.Infof("Deleted exercise %s", exerciseID)
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

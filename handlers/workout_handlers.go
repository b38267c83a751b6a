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

const defaultWorkoutType = "circuit"

// CreateWorkoutRequest defines the expected request body for creating a
// workout.
type CreateWorkoutRequest struct {
	Title           string      `json:"title" validate:"required"`
	Description     *string     `json:"description,omitempty"`
	WorkoutType     *string     `json:"workout_type,omitempty"`
	ScheduledDate   *string     `json:"scheduled_date,omitempty"`
	DurationMinutes interface{} `json:"duration_minutes,omitempty"`
}

// ListWorkouts handles GET /api/admin/workouts.
func (h *ApplicationHandler) ListWorkouts(c *fiber.Ctx) error {
	body, _, err := h.DB.From("workouts").
		Select("*", "", false).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		h.Logger.Errorf("Error fetching workouts: %v", err)
		return utils.RespondWithErrorDetails(c, fiber.StatusInternalServerError, "could not retrieve workouts", shortDiag(err))
	}

	var workouts []models.Workout
	if err := json.Unmarshal(body, &workouts); err != nil {
		h.Logger.Errorf("Error unmarshalling workouts: %v", err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "could not process workouts data")
	}
	if workouts == nil {
		workouts = []models.Workout{}
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"workouts": workouts})
}

// GetWorkout handles GET /api/admin/workouts/:id.
func (h *ApplicationHandler) GetWorkout(c *fiber.Ctx) error {
	workoutID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid workout ID format")
	}

	body, _, err := h.DB.From("workouts").
		Select("*", "", false).
		Eq("id", workoutID.String()).
		Execute()
	if err != nil {
		h.Logger.Errorf("Error fetching workout %s: %v", workoutID, err)
		return utils.RespondWithErrorDetails(c, fiber.StatusInternalServerError, "could not retrieve workout", shortDiag(err))
	}

	var workouts []models.Workout
	if err := json.Unmarshal(body, &workouts); err != nil {
		h.Logger.Errorf("Error unmarshalling workout %s: %v", workoutID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "could not process workout data")
	}
	if len(workouts) == 0 {
		return utils.RespondWithError(c, fiber.StatusNotFound, "workout not found")
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"workout": workouts[0]})
}

// CreateWorkout handles POST /api/admin/workouts.
func (h *ApplicationHandler) CreateWorkout(c *fiber.Ctx) error {
	payload := new(CreateWorkoutRequest)
	if err := c.BodyParser(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, utils.FormatValidationErrors(err))
	}

	duration, ok := coerceIntPtr(payload.DurationMinutes)
	if !ok {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "'duration_minutes' field must be a number")
	}

	now := time.Now()
	row := map[string]interface{}{
		"title":        payload.Title,
		"workout_type": defaultWorkoutType,
		"created_at":   now,
		"updated_at":   now,
	}
	if payload.WorkoutType != nil {
		row["workout_type"] = *payload.WorkoutType
	}
	if payload.Description != nil {
		row["description"] = *payload.Description
	}
	if payload.ScheduledDate != nil {
		row["scheduled_date"] = *payload.ScheduledDate
	}
	if duration != nil {
		row["duration_minutes"] = *duration
	}

	body, _, err := h.DB.From("workouts").
		Insert(row, false, "", "representation", "").
		Execute()
	if err != nil {
		h.Logger.Errorf("Error creating workout: %v", err)
		return utils.RespondWithErrorDetails(c, fiber.StatusInternalServerError, "could not create workout", shortDiag(err))
	}

	var created []models.Workout
	if err := json.Unmarshal(body, &created); err != nil || len(created) == 0 {
		h.Logger.Errorf("Error unmarshalling created workout: %v, body: %s", err, string(body))
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "failed to confirm workout creation")
	}

	h.Logger.Infof("Created workout %s", created[0].ID)
	return utils.RespondWithJSON(c, fiber.StatusCreated, fiber.Map{"workout": created[0]})
}

// UpdateWorkout handles PATCH /api/admin/workouts/:id.
func (h *ApplicationHandler) UpdateWorkout(c *fiber.Ctx) error {
	workoutID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid workout ID format")
	}

	var payload map[string]interface{}
	if err := c.BodyParser(&payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid request body")
	}

	updates := make(map[string]interface{})
	for _, step := range []error{
		applyString(updates, payload, "title"),
		applyString(updates, payload, "workout_type"),
		applyNullableString(updates, payload, "description"),
		applyNullableString(updates, payload, "scheduled_date"),
		applyNullableInt(updates, payload, "duration_minutes"),
	} {
		if step != nil {
			return utils.RespondWithError(c, fiber.StatusBadRequest, step.Error())
		}
	}
	updates["updated_at"] = time.Now()

	body, count, err := h.DB.From("workouts").
		Update(updates, "representation", "exact").
		Eq("id", workoutID.String()).
		Execute()
	if err != nil {
		h.Logger.Errorf("Error updating workout %s: %v", workoutID, err)
		return utils.RespondWithErrorDetails(c, fiber.StatusInternalServerError, "could not update workout", shortDiag(err))
	}
	if count == 0 {
		return utils.RespondWithError(c, fiber.StatusNotFound, "workout not found")
	}

	var updated []models.Workout
	if err := json.Unmarshal(body, &updated); err != nil || len(updated) == 0 {
		h.Logger.Errorf("Error unmarshalling updated workout %s: %v", workoutID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "could not process workout update response")
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"workout": updated[0]})
}

// DeleteWorkout handles DELETE /api/admin/workouts/:id.
func (h *ApplicationHandler) DeleteWorkout(c *fiber.Ctx) error {
	workoutID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid workout ID format")
	}

	_, count, err := h.DB.From("workouts").
		Delete("", "exact").
		Eq("id", workoutID.String()).
		Execute()
	if err != nil {
		h.Logger.Errorf("Error deleting workout %s: %v", workoutID, err)
		return utils.RespondWithErrorDetails(c, fiber.StatusInternalServerError, "could not delete workout", shortDiag(err))
	}
	if count == 0 {
		return utils.RespondWithError(c, fiber.StatusNotFound, "workout not found")
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

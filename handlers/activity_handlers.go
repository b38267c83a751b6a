package handlers

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/supabase-community/postgrest-go"

	"omrhub/admin-api/middleware"
	"omrhub/admin-api/models"
	"omrhub/admin-api/utils"
)

// Columns the activity list may be ordered by. Anything else falls back to
// the default so callers cannot order by arbitrary columns.
var activityOrderColumns = map[string]bool{
	"activity_date": true,
	"created_at":    true,
	"title":         true,
}

// CreateActivityRequest defines the expected request body for creating a PT
// activity. Capacity is loosely typed and coerced to a number before storage.
type CreateActivityRequest struct {
	Title        string      `json:"title" validate:"required"`
	Description  *string     `json:"description,omitempty"`
	Location     *string     `json:"location,omitempty"`
	ActivityDate *string     `json:"activity_date,omitempty"`
	StartTime    *string     `json:"start_time,omitempty"`
	EndTime      *string     `json:"end_time,omitempty"`
	Capacity     interface{} `json:"capacity,omitempty"`
}

// ListActivities handles GET /api/admin/activities with optional date range,
// ordering and ownership filters.
func (h *ApplicationHandler) ListActivities(c *fiber.Ctx) error {
	query := h.DB.From("activities").Select("*", "", false)

	if from := c.Query("from"); from != "" {
		query = query.Gte("activity_date", from)
	}
	if to := c.Query("to"); to != "" {
		query = query.Lte("activity_date", to)
	}
	if c.Query("mine") == "true" {
		admin := middleware.AdminFrom(c)
		if admin == nil {
			return utils.RespondWithError(c, fiber.StatusUnauthorized, "authentication required")
		}
		query = query.Eq("created_by", admin.ID)
	}

	orderColumn := c.Query("order", "activity_date")
	if !activityOrderColumns[orderColumn] {
		orderColumn = "activity_date"
	}

	body, _, err := query.Order(orderColumn, &postgrest.OrderOpts{Ascending: true}).Execute()
	if err != nil {
		h.Logger.Errorf("Error fetching activities: %v", err)
		return utils.RespondWithErrorDetails(c, fiber.StatusInternalServerError, "could not retrieve activities", shortDiag(err))
	}

	var activities []models.Activity
	if err := json.Unmarshal(body, &activities); err != nil {
		h.Logger.Errorf("Error unmarshalling activities: %v", err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "could not process activities data")
	}
	if activities == nil {
		activities = []models.Activity{}
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"activities": activities})
}

// GetActivity handles GET /api/admin/activities/:id.
func (h *ApplicationHandler) GetActivity(c *fiber.Ctx) error {
	activityID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid activity ID format")
	}

	body, _, err := h.DB.From("activities").
		Select("*", "", false).
		Eq("id", activityID.String()).
		Execute()
	if err != nil {
		h.Logger.Errorf("Error fetching activity %s: %v", activityID, err)
		return utils.RespondWithErrorDetails(c, fiber.StatusInternalServerError, "could not retrieve activity", shortDiag(err))
	}

	var activities []models.Activity
	if err := json.Unmarshal(body, &activities); err != nil {
		h.Logger.Errorf("Error unmarshalling activity %s: %v", activityID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "could not process activity data")
	}
	if len(activities) == 0 {
		return utils.RespondWithError(c, fiber.StatusNotFound, "activity not found")
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"activity": activities[0]})
}

// CreateActivity handles POST /api/admin/activities. The caller's identity
// is stamped as created_by for ownership scoping.
func (h *ApplicationHandler) CreateActivity(c *fiber.Ctx) error {
	admin := middleware.AdminFrom(c)
	if admin == nil {
		return utils.RespondWithError(c, fiber.StatusUnauthorized, "authentication required")
	}

	payload := new(CreateActivityRequest)
	if err := c.BodyParser(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, utils.FormatValidationErrors(err))
	}

	capacity, ok := coerceIntPtr(payload.Capacity)
	if !ok {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "'capacity' field must be a number")
	}

	now := time.Now()
	row := map[string]interface{}{
		"title":      payload.Title,
		"created_by": admin.ID,
		"created_at": now,
		"updated_at": now,
	}
	if payload.Description != nil {
		row["description"] = *payload.Description
	}
	if payload.Location != nil {
		row["location"] = *payload.Location
	}
	if payload.ActivityDate != nil {
		row["activity_date"] = *payload.ActivityDate
	}
	if payload.StartTime != nil {
		row["start_time"] = *payload.StartTime
	}
	if payload.EndTime != nil {
		row["end_time"] = *payload.EndTime
	}
	if capacity != nil {
		row["capacity"] = *capacity
	}

	body, _, err := h.DB.From("activities").
		Insert(row, false, "", "representation", "").
		Execute()
	if err != nil {
		h.Logger.Errorf("Error creating activity: %v", err)
		return utils.RespondWithErrorDetails(c, fiber.StatusInternalServerError, "could not create activity", shortDiag(err))
	}

	var created []models.Activity
	if err := json.Unmarshal(body, &created); err != nil || len(created) == 0 {
		h.Logger.Errorf("Error unmarshalling created activity: %v, body: %s", err, string(body))
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "failed to confirm activity creation")
	}

	h.Logger.Infof("Created activity %s for admin %s", created[0].ID, admin.ID)
	return utils.RespondWithJSON(c, fiber.StatusCreated, fiber.Map{"activity": created[0]})
}

// UpdateActivity handles PATCH /api/admin/activities/:id.
func (h *ApplicationHandler) UpdateActivity(c *fiber.Ctx) error {
	activityID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid activity ID format")
	}

	var payload map[string]interface{}
	if err := c.BodyParser(&payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid request body")
	}

	updates := make(map[string]interface{})
	for _, step := range []error{
		applyString(updates, payload, "title"),
		applyNullableString(updates, payload, "description"),
		applyNullableString(updates, payload, "location"),
		applyNullableString(updates, payload, "activity_date"),
		applyNullableString(updates, payload, "start_time"),
		applyNullableString(updates, payload, "end_time"),
		applyNullableInt(updates, payload, "capacity"),
	} {
		if step != nil {
			return utils.RespondWithError(c, fiber.StatusBadRequest, step.Error())
		}
	}
	updates["updated_at"] = time.Now()

	body, count, err := h.DB.From("activities").
		Update(updates, "representation", "exact").
		Eq("id", activityID.String()).
		Execute()
	if err != nil {
		h.Logger.Errorf("Error updating activity %s: %v", activityID, err)
		return utils.RespondWithErrorDetails(c, fiber.StatusInternalServerError, "could not update activity", shortDiag(err))
	}
	if count == 0 {
		return utils.RespondWithError(c, fiber.StatusNotFound, "activity not found")
	}

	var updated []models.Activity
	if err := json.Unmarshal(body, &updated); err != nil || len(updated) == 0 {
		h.Logger.Errorf("Error unmarshalling updated activity %s: %v", activityID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "could not process activity update response")
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"activity": updated[0]})
}

// DeleteActivity handles DELETE /api/admin/activities/:id. The delete is
// scoped to the caller's own activities so one admin cannot remove
// another's PT sessions.
func (h *ApplicationHandler) DeleteActivity(c *fiber.Ctx) error {
	admin := middleware.AdminFrom(c)
	if admin == nil {
		return utils.RespondWithError(c, fiber.StatusUnauthorized, "authentication required")
	}

	activityID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid activity ID format")
	}

	_, count, err := h.DB.From("activities").
		Delete("", "exact").
		Eq("id", activityID.String()).
		Eq("created_by", admin.ID).
		Execute()
	if err != nil {
		h.Logger.Errorf("Error deleting activity %s: %v", activityID, err)
		return utils.RespondWithErrorDetails(c, fiber.StatusInternalServerError, "could not delete activity", shortDiag(err))
	}
	if count == 0 {
		return utils.RespondWithError(c, fiber.StatusNotFound, "activity not found")
	}

	h.Logger.Infof("Deleted activity %s", activityID)
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

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

// CreateEventRequest defines the expected request body for creating an
// event.
type CreateEventRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description,omitempty"`
	EventDate   *string `json:"event_date,omitempty"`
	Location    *string `json:"location,omitempty"`
}

// ListEvents handles GET /api/admin/events.
func (h *ApplicationHandler) ListEvents(c *fiber.Ctx) error {
	body, _, err := h.DB.From("events").
		Select("*", "", false).
		Order("event_date", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		h.Logger.Errorf("Error fetching events: %v", err)
		return utils.RespondWithErrorDetails(c, fiber.StatusInternalServerError, "could not retrieve events", shortDiag(err))
	}

	var events []models.Event
	if err := json.Unmarshal(body, &events); err != nil {
		h.Logger.Errorf("Error unmarshalling events: %v", err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "could not process events data")
	}
	if events == nil {
		events = []models.Event{}
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"events": events})
}

// GetEvent handles GET /api/admin/events/:id.
func (h *ApplicationHandler) GetEvent(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid event ID format")
	}

	body, _, err := h.DB.From("events").
		Select("*", "", false).
		Eq("id", eventID.String()).
		Execute()
	if err != nil {
		h.Logger.Errorf("Error fetching event %s: %v", eventID, err)
		return utils.RespondWithErrorDetails(c, fiber.StatusInternalServerError, "could not retrieve event", shortDiag(err))
	}

	var events []models.Event
	if err := json.Unmarshal(body, &events); err != nil {
		h.Logger.Errorf("Error unmarshalling event %s: %v", eventID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "could not process event data")
	}
	if len(events) == 0 {
		return utils.RespondWithError(c, fiber.StatusNotFound, "event not found")
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"event": events[0]})
}

// CreateEvent handles POST /api/admin/events.
func (h *ApplicationHandler) CreateEvent(c *fiber.Ctx) error {
	payload := new(CreateEventRequest)
	if err := c.BodyParser(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, utils.FormatValidationErrors(err))
	}

	now := time.Now()
	row := map[string]interface{}{
		"title":      payload.Title,
		"created_at": now,
		"updated_at": now,
	}
	if payload.Description != nil {
		row["description"] = *payload.Description
	}
	if payload.EventDate != nil {
		row["event_date"] = *payload.EventDate
	}
	if payload.Location != nil {
		row["location"] = *payload.Location
	}

	body, _, err := h.DB.From("events").
		Insert(row, false, "", "representation", "").
		Execute()
	if err != nil {
		h.Logger.Errorf("Error creating event: %v", err)
		return utils.RespondWithErrorDetails(c, fiber.StatusInternalServerError, "could not create event", shortDiag(err))
	}

	var created []models.Event
	if err := json.Unmarshal(body, &created); err != nil || len(created) == 0 {
		h.Logger.Errorf("Error unmarshalling created event: %v, body: %s", err, string(body))
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "failed to confirm event creation")
	}

	h.Logger.Infof("Created event %s", created[0].ID)
	return utils.RespondWithJSON(c, fiber.StatusCreated, fiber.Map{"event": created[0]})
}

// UpdateEvent handles PATCH /api/admin/events/:id.
func (h *ApplicationHandler) UpdateEvent(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid event ID format")
	}

	var payload map[string]interface{}
	if err := c.BodyParser(&payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid request body")
	}

	updates := make(map[string]interface{})
	for _, step := range []error{
		applyString(updates, payload, "title"),
		applyNullableString(updates, payload, "description"),
		applyNullableString(updates, payload, "event_date"),
		applyNullableString(updates, payload, "location"),
		applyNullableString(updates, payload, "image_path"),
	} {
		if step != nil {
			return utils.RespondWithError(c, fiber.StatusBadRequest, step.Error())
		}
	}
	updates["updated_at"] = time.Now()

	body, count, err := h.DB.From("events").
		Update(updates, "representation", "exact").
		Eq("id", eventID.String()).
		Execute()
	if err != nil {
		h.Logger.Errorf("Error updating event %s: %v", eventID, err)
		return utils.RespondWithErrorDetails(c, fiber.StatusInternalServerError, "could not update event", shortDiag(err))
	}
	if count == 0 {
		return utils.RespondWithError(c, fiber.StatusNotFound, "event not found")
	}

	var updated []models.Event
	if err := json.Unmarshal(body, &updated); err != nil || len(updated) == 0 {
		h.Logger.Errorf("Error unmarshalling updated event %s: %v", eventID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "could not process event update response")
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"event": updated[0]})
}

// DeleteEvent handles DELETE /api/admin/events/:id.
func (h *ApplicationHandler) DeleteEvent(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid event ID format")
	}

	_, count, err := h.DB.From("events").
		Delete("", "exact").
		Eq("id", eventID.String()).
		Execute()
	if err != nil {
		h.Logger.Errorf("Error deleting event %s: %v", eventID, err)
		return utils.RespondWithErrorDetails(c, fiber.StatusInternalServerError, "could not delete event", shortDiag(err))
	}
	if count == 0 {
		return utils.RespondWithError(c, fiber.StatusNotFound, "event not found")
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

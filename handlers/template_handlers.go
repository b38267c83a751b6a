package handlers

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/supabase-community/postgrest-go"

	"omrhub/admin-api/middleware"
	"omrhub/admin-api/models"
	"omrhub/admin-api/utils"
)

// SaveTemplateRequest defines the expected request body for saving the
// caller's workout template.
type SaveTemplateRequest struct {
	Title        string          `json:"title" validate:"required"`
	TemplateData json.RawMessage `json:"template_data" validate:"required"`
}

// GetTemplate handles GET /api/admin/template. It returns the caller's most
// recently updated template.
func (h *ApplicationHandler) GetTemplate(c *fiber.Ctx) error {
	admin := middleware.AdminFrom(c)
	if admin == nil {
		return utils.RespondWithError(c, fiber.StatusUnauthorized, "authentication required")
	}

	template, err := h.latestTemplateForAdmin(admin.ID)
	if err != nil {
		h.Logger.Errorf("Error fetching template for admin %s: %v", admin.ID, err)
		return utils.RespondWithErrorDetails(c, fiber.StatusInternalServerError, "could not retrieve template", shortDiag(err))
	}
	if template == nil {
		return utils.RespondWithError(c, fiber.StatusNotFound, "no template saved")
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"template": template})
}

// SaveTemplate handles PUT /api/admin/template with upsert semantics: the
// caller's existing template is updated in place, otherwise a new row is
// inserted. One admin therefore never accumulates more than one row through
// this route.
func (h *ApplicationHandler) SaveTemplate(c *fiber.Ctx) error {
	admin := middleware.AdminFrom(c)
	if admin == nil {
		return utils.RespondWithError(c, fiber.StatusUnauthorized, "authentication required")
	}

	payload := new(SaveTemplateRequest)
	if err := c.BodyParser(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, utils.FormatValidationErrors(err))
	}

	existing, err := h.latestTemplateForAdmin(admin.ID)
	if err != nil {
		h.Logger.Errorf("Error looking up template for admin %s: %v", admin.ID, err)
		return utils.RespondWithErrorDetails(c, fiber.StatusInternalServerError, "could not save template", shortDiag(err))
	}

	now := time.Now()
	var body []byte
	if existing != nil {
		updates := map[string]interface{}{
			"title":         payload.Title,
			"template_data": payload.TemplateData,
			"updated_at":    now,
		}
		body, _, err = h.DB.From("workout_templates").
			Update(updates, "representation", "").
			Eq("id", existing.ID.String()).
			Execute()
	} else {
		row := map[string]interface{}{
			"admin_id":      admin.ID,
			"title":         payload.Title,
			"template_data": payload.TemplateData,
			"created_at":    now,
			"updated_at":    now,
		}
		body, _, err = h.DB.From("workout_templates").
			Insert(row, false, "", "representation", "").
			Execute()
	}
	if err != nil {
		h.Logger.Errorf("Error saving template for admin %s: %v", admin.ID, err)
		return utils.RespondWithErrorDetails(c, fiber.StatusInternalServerError, "could not save template", shortDiag(err))
	}

	var saved []models.WorkoutTemplate
	if err := json.Unmarshal(body, &saved); err != nil || len(saved) == 0 {
		h.Logger.Errorf("Error unmarshalling saved template for admin %s: %v", admin.ID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "failed to confirm template save")
	}

	status := fiber.StatusOK
	if existing == nil {
		status = fiber.StatusCreated
	}
	h.Logger.Infof("Saved template %s for admin %s", saved[0].ID, admin.ID)
	return utils.RespondWithJSON(c, status, fiber.Map{"template": saved[0]})
}

// latestTemplateForAdmin returns the owner's most recently updated template,
// or nil when none exists. The updated_at ordering is the tie-break should
// stale duplicates ever exist.
func (h *ApplicationHandler) latestTemplateForAdmin(adminID string) (*models.WorkoutTemplate, error) {
	body, _, err := h.DB.From("workout_templates").
		Select("*", "", false).
		Eq("admin_id", adminID).
		Order("updated_at", &postgrest.OrderOpts{Ascending: false}).
		Limit(1, "").
		Execute()
	if err != nil {
		return nil, err
	}

	var templates []models.WorkoutTemplate
	if err := json.Unmarshal(body, &templates); err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return nil, nil
	}
	return &templates[0], nil
}

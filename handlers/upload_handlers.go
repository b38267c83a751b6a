package handlers

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	storage_go "github.com/supabase-community/storage-go"

	"omrhub/admin-api/utils"
)

// Content-type allow-lists. Anything outside these is rejected before any
// call to the storage service.
var (
	allowedImageTypes = map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/webp": true,
	}
	allowedVideoTypes = map[string]bool{
		"video/mp4":       true,
		"video/quicktime": true,
		"video/webm":      true,
	}
	allowedGenders = map[string]bool{
		"male":   true,
		"female": true,
		"both":   true,
	}
)

// UploadExerciseMedia handles POST /api/admin/exercises/:id/media.
//
// The storage path is deterministic (exercises/{id}/{gender}{ext}) and the
// upload upserts, so re-uploading media for the same exercise and gender
// overwrites instead of accumulating objects.
func (h *ApplicationHandler) UploadExerciseMedia(c *fiber.Ctx) error {
	exerciseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid exercise ID format")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "missing 'file' form field")
	}

	gender := c.FormValue("gender")
	if !allowedGenders[gender] {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "'gender' field must be one of male, female, both")
	}

	contentType := file.Header.Get(fiber.HeaderContentType)
	isImage := allowedImageTypes[contentType]
	isVideo := allowedVideoTypes[contentType]
	if !isImage && !isVideo {
		return utils.RespondWithError(c, fiber.StatusBadRequest,
			fmt.Sprintf("content type %q is not allowed", contentType))
	}

	limit := h.Config.MaxImageBytes
	if isVideo {
		limit = h.Config.MaxVideoBytes
	}
	if file.Size > limit {
		return utils.RespondWithError(c, fiber.StatusBadRequest,
			fmt.Sprintf("file exceeds the %d byte limit", limit))
	}

	// Validation passed; confirm the exercise exists before touching storage.
	body, _, err := h.DB.From("exercises").
		Select("id", "", false).
		Eq("id", exerciseID.String()).
		Execute()
	if err != nil {
		h.Logger.Errorf("Error checking exercise %s before upload: %v", exerciseID, err)
		return utils.RespondWithErrorDetails(c, fiber.StatusInternalServerError, "could not verify exercise", shortDiag(err))
	}
	var rows []map[string]interface{}
	if err := json.Unmarshal(body, &rows); err != nil || len(rows) == 0 {
		return utils.RespondWithError(c, fiber.StatusNotFound, "exercise not found")
	}

	storagePath := fmt.Sprintf("exercises/%s/%s%s", exerciseID, gender, strings.ToLower(filepath.Ext(file.Filename)))
	if err := h.uploadToPrimaryBucket(file, storagePath, contentType, true); err != nil {
		h.Logger.Errorf("Error uploading media for exercise %s: %v", exerciseID, err)
		return utils.RespondWithErrorDetails(c, fiber.StatusInternalServerError, "could not upload file", shortDiag(err))
	}

	pathColumn := "image_path"
	if isVideo {
		pathColumn = "video_path"
	}
	_, _, err = h.DB.From("exercises").
		Update(map[string]interface{}{pathColumn: storagePath, "updated_at": time.Now()}, "", "").
		Eq("id", exerciseID.String()).
		Execute()
	if err != nil {
		// The object is stored; surface success and leave the row for a retry.
		h.Logger.Errorf("Error recording media path for exercise %s: %v", exerciseID, err)
	}

	h.Logger.Infof("Uploaded media for exercise %s to %s", exerciseID, storagePath)
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"path": storagePath})
}

// UploadEventImage handles POST /api/admin/events/:id/image.
//
// Event images get a randomized path (timestamp plus token) so each upload
// is a distinct object.
func (h *ApplicationHandler) UploadEventImage(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "invalid event ID format")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "missing 'file' form field")
	}

	contentType := file.Header.Get(fiber.HeaderContentType)
	if !allowedImageTypes[contentType] {
		return utils.RespondWithError(c, fiber.StatusBadRequest,
			fmt.Sprintf("content type %q is not allowed", contentType))
	}
	if file.Size > h.Config.MaxImageBytes {
		return utils.RespondWithError(c, fiber.StatusBadRequest,
			fmt.Sprintf("file exceeds the %d byte limit", h.Config.MaxImageBytes))
	}

	body, _, err := h.DB.From("events").
		Select("id", "", false).
		Eq("id", eventID.String()).
		Execute()
	if err != nil {
		h.Logger.Errorf("Error checking event %s before upload: %v", eventID, err)
		return utils.RespondWithErrorDetails(c, fiber.StatusInternalServerError, "could not verify event", shortDiag(err))
	}
	var rows []map[string]interface{}
	if err := json.Unmarshal(body, &rows); err != nil || len(rows) == 0 {
		return utils.RespondWithError(c, fiber.StatusNotFound, "event not found")
	}

	token := strings.Split(uuid.NewString(), "-")[0]
	storagePath := fmt.Sprintf("events/%d-%s%s", time.Now().Unix(), token, strings.ToLower(filepath.Ext(file.Filename)))
	if err := h.uploadToPrimaryBucket(file, storagePath, contentType, false); err != nil {
		h.Logger.Errorf("Error uploading image for event %s: %v", eventID, err)
		return utils.RespondWithErrorDetails(c, fiber.StatusInternalServerError, "could not upload file", shortDiag(err))
	}

	_, _, err = h.DB.From("events").
		Update(map[string]interface{}{"image_path": storagePath, "updated_at": time.Now()}, "", "").
		Eq("id", eventID.String()).
		Execute()
	if err != nil {
		h.Logger.Errorf("Error recording image path for event %s: %v", eventID, err)
	}

	h.Logger.Infof("Uploaded image for event %s to %s", eventID, storagePath)
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"path": storagePath})
}

// uploadToPrimaryBucket streams a multipart file into the first configured
// media bucket.
func (h *ApplicationHandler) uploadToPrimaryBucket(file *multipart.FileHeader, storagePath, contentType string, upsert bool) error {
	handle, err := file.Open()
	if err != nil {
		return fmt.Errorf("opening uploaded file: %w", err)
	}
	defer handle.Close()

	bucket := h.Config.MediaBuckets[0]
	_, err = h.DB.Storage.UploadFile(bucket, storagePath, handle, storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return fmt.Errorf("uploading to bucket %s: %w", bucket, err)
	}
	return nil
}

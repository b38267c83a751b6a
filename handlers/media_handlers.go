package handlers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"omrhub/admin-api/utils"
)

// Signed retrieval URLs are valid for one hour.
const signedURLLifetimeSeconds = 3600

// GetSignedMediaURL handles GET /api/admin/media/signed-url?path=...
//
// Paths that are already absolute URLs are treated as pre-resolved and
// returned unchanged without touching the storage service. Everything else
// is signed against the configured bucket candidates in order: assets
// uploaded before the bucket consolidation live in older buckets, and
// probing them in sequence keeps those paths resolvable without a storage
// migration. The first successful signature wins; if every candidate fails
// the last error is surfaced.
func (h *ApplicationHandler) GetSignedMediaURL(c *fiber.Ctx) error {
	path := c.Query("path")
	if path == "" {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "missing 'path' query parameter")
	}

	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"url": path})
	}

	var lastErr error
	for _, bucket := range h.Config.MediaBuckets {
		resp, err := h.DB.Storage.CreateSignedUrl(bucket, path, signedURLLifetimeSeconds)
		if err == nil && resp.SignedURL == "" {
			err = fmt.Errorf("bucket %s returned an empty signed url", bucket)
		}
		if err != nil {
			h.Logger.WithField("bucket", bucket).Debugf("Signed URL attempt failed for %s: %v", path, err)
			lastErr = err
			continue
		}
		return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"url": h.absoluteStorageURL(resp.SignedURL)})
	}

	h.Logger.Errorf("All buckets failed to sign %s: %v", path, lastErr)
	return utils.RespondWithErrorDetails(c, fiber.StatusInternalServerError, "could not generate signed url", shortDiag(lastErr))
}

// absoluteStorageURL makes a storage-relative signed URL absolute.
func (h *ApplicationHandler) absoluteStorageURL(signed string) string {
	if strings.HasPrefix(signed, "http://") || strings.HasPrefix(signed, "https://") {
		return signed
	}
	base := strings.TrimSuffix(h.Config.SupabaseURL, "/") + "/storage/v1"
	if !strings.HasPrefix(signed, "/") {
		return base + "/" + signed
	}
	return base + signed
}

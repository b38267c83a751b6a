package handlers

import (
	"bytes"
	"html/template"

	"github.com/gofiber/fiber/v2"

	"omrhub/admin-api/utils"
)

// Content categories the native app claims deep links for.
var deepLinkLabels = map[string]string{
	"activity": "Activity",
	"workout":  "Workout",
	"event":    "Event",
}

var deepLinkPage = template.Must(template.New("deeplink").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <meta name="apple-itunes-app" content="app-id={{.AppStoreID}}, app-argument={{.DeepLink}}">
  <title>OMR Hub {{.Label}}</title>
</head>
<body>
  <h1>Open this {{.Label}} in the OMR Hub app</h1>
  <p>If the app did not open automatically, install it from the store:</p>
  <p><a href="{{.StoreURL}}">Get OMR Hub</a></p>
</body>
</html>
`))

// DeepLink handles GET /l/:type/:id. The page emits app-store metadata so an
// installed app can intercept the link and degrades to a store-listing
// fallback otherwise. The ID is only echoed into the page; it is never
// resolved server-side.
func (h *ApplicationHandler) DeepLink(c *fiber.Ctx) error {
	linkType := c.Params("type")
	label, ok := deepLinkLabels[linkType]
	if !ok {
		return utils.RespondWithError(c, fiber.StatusNotFound, "unknown link type")
	}

	data := struct {
		AppStoreID string
		DeepLink   string
		Label      string
		StoreURL   string
	}{
		AppStoreID: h.Config.AppStoreID,
		DeepLink:   "omrhub://" + linkType + "/" + c.Params("id"),
		Label:      label,
		StoreURL:   h.Config.AppStoreURL,
	}

	var buf bytes.Buffer
	if err := deepLinkPage.Execute(&buf, data); err != nil {
		h.Logger.Errorf("Error rendering deep link page: %v", err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "could not render page")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(fiber.StatusOK).Send(buf.Bytes())
}

// AppSiteAssociation handles GET /.well-known/apple-app-site-association.
// The document declares which paths the native app claims and is cacheable
// for an hour.
func (h *ApplicationHandler) AppSiteAssociation(c *fiber.Ctx) error {
	doc := fiber.Map{
		"applinks": fiber.Map{
			"apps": []string{},
			"details": []fiber.Map{
				{
					"appID": h.Config.AppBundleID,
					"paths": []string{"/l/*"},
				},
			},
		},
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	c.Set(fiber.HeaderCacheControl, "public, max-age=3600")
	return c.Status(fiber.StatusOK).JSON(doc)
}

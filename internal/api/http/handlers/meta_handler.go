package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/civic-complaints/internal/domain"
	"github.com/spec-kit/civic-complaints/internal/i18n"
)

// MetaHandler serves the fixed option lists clients render in forms,
// localized by the lang query parameter.
type MetaHandler struct{}

// NewMetaHandler constructs handler.
func NewMetaHandler() *MetaHandler {
	return &MetaHandler{}
}

// Options handles GET /meta/options?lang=hi.
func (h *MetaHandler) Options(c *fiber.Ctx) error {
	lang := i18n.Lang(c.Query("lang", string(i18n.DefaultLang)))
	if !i18n.Supported(lang) {
		lang = i18n.DefaultLang
	}

	categories := make([]fiber.Map, 0, len(domain.ComplaintCategories))
	for _, category := range domain.ComplaintCategories {
		categories = append(categories, fiber.Map{
			"value": category,
			"label": i18n.CategoryLabel(lang, category),
		})
	}
	statuses := make([]fiber.Map, 0, len(domain.ComplaintStatuses))
	for _, status := range domain.ComplaintStatuses {
		statuses = append(statuses, fiber.Map{
			"value": status,
			"label": i18n.StatusLabel(lang, status),
		})
	}

	return c.JSON(fiber.Map{"data": fiber.Map{
		"app_name":   i18n.T(lang, "app.name"),
		"lang":       lang,
		"categories": categories,
		"statuses":   statuses,
	}})
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/civic-complaints/internal/api/dto"
	"github.com/spec-kit/civic-complaints/internal/auth"
	"github.com/spec-kit/civic-complaints/internal/domain"
	"github.com/spec-kit/civic-complaints/internal/service"
	apperrors "github.com/spec-kit/civic-complaints/pkg/util/errorutil"
)

// AdminComplaintsHandler manages triage endpoints for administrators.
type AdminComplaintsHandler struct {
	service *service.ComplaintService
}

// NewAdminComplaintsHandler constructs handler.
func NewAdminComplaintsHandler(complaintService *service.ComplaintService) *AdminComplaintsHandler {
	return &AdminComplaintsHandler{service: complaintService}
}

// List handles GET /admin/complaints.
func (h *AdminComplaintsHandler) List(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	complaints, err := h.service.ListAll(c.Context(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintResponses(complaints)})
}

// Get handles GET /admin/complaints/:id.
func (h *AdminComplaintsHandler) Get(c *fiber.Ctx) error {
	complaint, err := h.service.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintResponse(complaint)})
}

// Update handles PATCH /admin/complaints/:id. Status and remarks are
// written together with any owner notification, or not at all.
func (h *AdminComplaintsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("admin required")
	}
	var req dto.UpdateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	complaint, err := h.service.Update(c.Context(), principal.User.ID, c.Params("id"), req.Status, req.Remarks)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintResponse(complaint)})
}

// History handles GET /admin/complaints/:id/history.
func (h *AdminComplaintsHandler) History(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	entries, err := h.service.ListHistory(c.Context(), c.Params("id"), limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.ComplaintHistoryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, historyResponse(&entries[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func historyResponse(entry *domain.ComplaintHistory) dto.ComplaintHistoryResponse {
	return dto.ComplaintHistoryResponse{
		ID:          entry.ID,
		ChangeType:  entry.ChangeType,
		ChangedByID: entry.ChangedByID,
		OldValue:    entry.OldValue,
		NewValue:    entry.NewValue,
		CreatedAt:   entry.CreatedAt,
	}
}

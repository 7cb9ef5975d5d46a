package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/civic-complaints/internal/api/dto"
	"github.com/spec-kit/civic-complaints/internal/auth"
	"github.com/spec-kit/civic-complaints/internal/domain"
	"github.com/spec-kit/civic-complaints/internal/service"
	apperrors "github.com/spec-kit/civic-complaints/pkg/util/errorutil"
)

// ComplaintsHandler manages citizen complaint endpoints.
type ComplaintsHandler struct {
	service *service.ComplaintService
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaintService *service.ComplaintService) *ComplaintsHandler {
	return &ComplaintsHandler{service: complaintService}
}

// Create handles POST /complaints. Authentication is optional: an
// unauthenticated caller, or an authenticated one setting anonymous,
// files without an owner and will never receive notifications.
func (h *ComplaintsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	var authorID *string
	if principal, ok := auth.PrincipalFromContext(c); ok && principal.User != nil {
		authorID = &principal.User.ID
	} else {
		// No session means there is nobody to attribute the complaint
		// to, so the filing is anonymous whether or not it asked.
		req.Anonymous = true
	}

	input := service.ComplaintSubmitInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		PhotoURL:    req.PhotoURL,
		VoiceURL:    req.VoiceURL,
		Anonymous:   req.Anonymous,
	}
	if req.Location != nil {
		input.Location = &domain.GeoPoint{
			Latitude:  req.Location.Latitude,
			Longitude: req.Location.Longitude,
		}
	}

	complaint, err := h.service.Submit(c.Context(), authorID, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": complaintResponse(complaint)})
}

// ListMine handles GET /complaints.
func (h *ComplaintsHandler) ListMine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	limit, offset := parsePagination(c)
	complaints, err := h.service.ListByUser(c.Context(), principal.User.ID, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintResponses(complaints)})
}

// GetMine handles GET /complaints/:id. Owners only.
func (h *ComplaintsHandler) GetMine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	complaint, err := h.service.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	if complaint.UserID == nil || *complaint.UserID != principal.User.ID {
		// Ownership failures read as NOT_FOUND so complaint IDs cannot
		// be probed by other accounts.
		return apperrors.NewNotFound("complaint", nil)
	}
	return c.JSON(fiber.Map{"data": complaintResponse(complaint)})
}

// Track handles GET /track/:reference. Public, no authentication.
func (h *ComplaintsHandler) Track(c *fiber.Ctx) error {
	complaint, err := h.service.GetByReference(c.Context(), c.Params("reference"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TrackComplaintResponse{
		Reference: complaint.Reference,
		Title:     complaint.Title,
		Category:  complaint.Category,
		Status:    complaint.Status,
		Remarks:   complaint.Remarks,
		CreatedAt: complaint.CreatedAt,
	}})
}

func complaintResponse(complaint *domain.Complaint) dto.ComplaintResponse {
	resp := dto.ComplaintResponse{
		ID:          complaint.ID,
		Reference:   complaint.Reference,
		UserID:      complaint.UserID,
		Title:       complaint.Title,
		Description: complaint.Description,
		Category:    complaint.Category,
		PhotoURL:    complaint.PhotoURL,
		VoiceURL:    complaint.VoiceURL,
		Status:      complaint.Status,
		Remarks:     complaint.Remarks,
		IsAnonymous: complaint.IsAnonymous,
		CreatedAt:   complaint.CreatedAt,
		UpdatedAt:   complaint.UpdatedAt,
	}
	if complaint.Location != nil {
		resp.Location = &dto.LocationRequest{
			Latitude:  complaint.Location.Latitude,
			Longitude: complaint.Location.Longitude,
		}
	}
	return resp
}

func complaintResponses(complaints []domain.Complaint) []dto.ComplaintResponse {
	items := make([]dto.ComplaintResponse, 0, len(complaints))
	for i := range complaints {
		items = append(items, complaintResponse(&complaints[i]))
	}
	return items
}

func parsePagination(c *fiber.Ctx) (limit, offset int) {
	limit, _ = strconv.Atoi(c.Query("limit"))
	offset, _ = strconv.Atoi(c.Query("offset"))
	return limit, offset
}

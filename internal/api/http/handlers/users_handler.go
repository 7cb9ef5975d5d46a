package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/civic-complaints/internal/api/dto"
	"github.com/spec-kit/civic-complaints/internal/domain"
	"github.com/spec-kit/civic-complaints/internal/service"
	apperrors "github.com/spec-kit/civic-complaints/pkg/util/errorutil"
)

// UsersHandler exposes registration, verification and login endpoints.
type UsersHandler struct {
	auth *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{auth: authService}
}

// Register handles POST /auth/users/register. Accounts start
// unverified and cannot log in until the emailed token is consumed.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Name) == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("name, email, password required", nil)
	}

	user, verificationToken, err := h.auth.RegisterUser(c.Context(), req.Name, req.Email, req.Password, req.Phone)
	if err != nil {
		return err
	}

	// The token is also dispatched through the email stub. Exposed here
	// until a real mailer is wired in.
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"user":               userResponse(user),
			"verification_token": verificationToken,
		},
	})
}

// Verify handles POST /auth/users/verify.
func (h *UsersHandler) Verify(c *fiber.Ctx) error {
	var req dto.VerifyEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Token == "" {
		return apperrors.NewValidationError("token required", nil)
	}
	user, err := h.auth.VerifyEmail(c.Context(), req.Token)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// Login handles POST /auth/users/login. Identifier is email or phone.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	return h.login(c, h.auth.LoginUser)
}

// AdminLogin handles POST /auth/admin/login.
func (h *UsersHandler) AdminLogin(c *fiber.Ctx) error {
	return h.login(c, h.auth.LoginAdmin)
}

func (h *UsersHandler) login(c *fiber.Ctx, fn service.LoginFunc) error {
	var req dto.UserLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Identifier == "" || req.Password == "" {
		return apperrors.NewValidationError("identifier and password required", nil)
	}

	user, token, exp, err := fn(c.Context(), req.Identifier, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": userResponse(user),
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Phone:      user.Phone,
		Role:       string(user.Role),
		IsVerified: user.IsVerified,
	}
}

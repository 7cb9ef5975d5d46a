package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/civic-complaints/internal/auth"
	"github.com/spec-kit/civic-complaints/internal/config"
	"github.com/spec-kit/civic-complaints/internal/domain"
	"github.com/spec-kit/civic-complaints/internal/events"
	"github.com/spec-kit/civic-complaints/internal/repository"
	apperrors "github.com/spec-kit/civic-complaints/pkg/util/errorutil"
)

// VerificationTokens abstracts the one-shot verification token store
// (Redis in production).
type VerificationTokens interface {
	Issue(ctx context.Context, userID string) (string, error)
	Consume(ctx context.Context, token string) (string, error)
}

// AuthService coordinates registration, verification and login flows.
type AuthService struct {
	users         repository.UserRepository
	verifications VerificationTokens
	dispatcher    events.Dispatcher
	tokenMgr      *auth.TokenManager
	bcryptCost    int
}

// AuthDependencies encapsulates requirements for auth service.
type AuthDependencies struct {
	UserRepo          repository.UserRepository
	VerificationStore VerificationTokens
	Dispatcher        events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:         deps.UserRepo,
		verifications: deps.VerificationStore,
		dispatcher:    deps.Dispatcher,
		tokenMgr:      auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost:    cfg.Auth.BcryptCost,
	}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// RegisterUser creates an unverified citizen account and issues a
// verification token. The token would normally travel by email; it is
// returned so callers can deliver it.
func (s *AuthService) RegisterUser(ctx context.Context, name, email, password string, phone *string) (*domain.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if name == "" || email == "" || password == "" {
		return nil, "", apperrors.NewValidationError("name, email, password required", nil)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", apperrors.NewConflict("email already registered", map[string]any{"email": email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", apperrors.MapError(err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		IsVerified:   false,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", apperrors.MapError(err)
	}

	token := ""
	if s.verifications != nil {
		token, err = s.verifications.Issue(ctx, user.ID)
		if err != nil {
			return nil, "", apperrors.NewTransientIOError(err)
		}
	}
	return user, token, nil
}

// VerifyEmail consumes a verification token and flips the account to
// verified. The flip is one-way; verifying twice is a no-op.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*domain.User, error) {
	if s.verifications == nil {
		return nil, apperrors.NewTransientIOError(errors.New("verification store unavailable"))
	}
	userID, err := s.verifications.Consume(ctx, token)
	if err != nil {
		if errors.Is(err, auth.ErrTokenUnknown) {
			return nil, apperrors.NewNotFound("verification token", nil)
		}
		return nil, apperrors.NewTransientIOError(err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if user.IsVerified {
		return user, nil
	}
	user.IsVerified = true
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventUserVerified,
		EntityID: user.ID,
		Actor:    events.Actor{Role: user.Role, UserID: &user.ID},
		Payload:  events.UserVerifiedPayload{Email: user.Email},
	})
	return user, nil
}

// LoginFunc is the shape shared by citizen and admin login.
type LoginFunc func(ctx context.Context, identifier, password string) (*domain.User, string, time.Time, error)

// LoginUser authenticates a citizen by email or phone. Unverified
// accounts are rejected before any token is issued.
func (s *AuthService) LoginUser(ctx context.Context, identifier, password string) (*domain.User, string, time.Time, error) {
	return s.login(ctx, identifier, password, domain.RoleUser)
}

// LoginAdmin authenticates an administrator.
func (s *AuthService) LoginAdmin(ctx context.Context, identifier, password string) (*domain.User, string, time.Time, error) {
	return s.login(ctx, identifier, password, domain.RoleAdmin)
}

func (s *AuthService) login(ctx context.Context, identifier, password string, role domain.Role) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmailOrPhone(ctx, strings.TrimSpace(identifier))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if user.Role != role {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	if role == domain.RoleUser && !user.IsVerified {
		return nil, "", time.Time{}, apperrors.NewNotVerified()
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return user, token, exp, nil
}

// EnsureAdmin creates a verified admin account when none exists for
// the email. Used by startup bootstrap.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, password string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return apperrors.MapError(err)
	}
	admin := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		IsVerified:   true,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *AuthService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

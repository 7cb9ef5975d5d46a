package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/civic-complaints/internal/api/http"
	"github.com/spec-kit/civic-complaints/internal/api/http/handlers"
	"github.com/spec-kit/civic-complaints/internal/auth"
	"github.com/spec-kit/civic-complaints/internal/config"
	"github.com/spec-kit/civic-complaints/internal/events"
	"github.com/spec-kit/civic-complaints/internal/observability"
	"github.com/spec-kit/civic-complaints/internal/repository/memory"
	"github.com/spec-kit/civic-complaints/internal/service"
	"github.com/spec-kit/civic-complaints/internal/worker"
)

// memoryVerifications keeps verification tokens in a map so tests can
// walk the register-verify-login flow without Redis.
type memoryVerifications struct {
	mu     sync.Mutex
	tokens map[string]string
}

func (m *memoryVerifications) Issue(ctx context.Context, userID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	token := uuid.NewString()
	m.tokens[token] = userID
	return token, nil
}

func (m *memoryVerifications) Consume(ctx context.Context, token string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	userID, ok := m.tokens[token]
	if !ok {
		return "", auth.ErrTokenUnknown
	}
	delete(m.tokens, token)
	return userID, nil
}

type apiFixture struct {
	app   *fiber.App
	store *memory.Store
	auth  *service.AuthService
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	store := memory.NewStore()
	dispatcher := events.NewInMemoryDispatcher()
	logger := zap.NewNop()
	cfg := config.Config{Auth: config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 60,
		BcryptCost:            4,
	}}

	authService := service.NewAuthService(cfg, service.AuthDependencies{
		UserRepo:          store.Users(),
		VerificationStore: &memoryVerifications{tokens: make(map[string]string)},
		Dispatcher:        dispatcher,
	})
	complaintService := service.NewComplaintService(service.ComplaintDependencies{
		ComplaintRepo:    store.Complaints(),
		NotificationRepo: store.Notifications(),
		HistoryRepo:      store.History(),
		TxRunner:         store.TxRunner(),
		Dispatcher:       dispatcher,
	})
	notificationService := service.NewNotificationService(store.Notifications(), dispatcher, logger, config.NotificationConfig{})
	worker.StartNotificationWorker(notificationService)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, observability.NewMetrics(), 5*time.Second)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Users:           handlers.NewUsersHandler(authService),
		Complaints:      handlers.NewComplaintsHandler(complaintService),
		AdminComplaints: handlers.NewAdminComplaintsHandler(complaintService),
		Notifications:   handlers.NewNotificationsHandler(notificationService),
		Meta:            handlers.NewMetaHandler(),
		AuthMiddleware:  auth.NewAuthMiddleware(authService.TokenManager(), store.Users()),
		Health:          handlers.NewHealthHandler("test", "test", nil, nil),
	})
	return &apiFixture{app: app, store: store, auth: authService}
}

func (f *apiFixture) request(t *testing.T, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)

	payload := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &payload), "body: %s", raw)
	}
	return resp, payload
}

// registerVerifiedUser walks the full register-verify-login flow and
// returns a bearer token.
func (f *apiFixture) registerVerifiedUser(t *testing.T, email string) string {
	t.Helper()
	resp, payload := f.request(t, http.MethodPost, "/auth/users/register", "", map[string]any{
		"name":     "Asha Kulkarni",
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	verificationToken := payload["data"].(map[string]any)["verification_token"].(string)

	resp, _ = f.request(t, http.MethodPost, "/auth/users/verify", "", map[string]any{"token": verificationToken})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, payload = f.request(t, http.MethodPost, "/auth/users/login", "", map[string]any{
		"identifier": email,
		"password":   "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return payload["data"].(map[string]any)["auth"].(map[string]any)["token"].(string)
}

func (f *apiFixture) adminToken(t *testing.T) string {
	t.Helper()
	require.NoError(t, f.auth.EnsureAdmin(context.Background(), "Admin", "admin@example.com", "admin-pass"))
	_, payload := f.request(t, http.MethodPost, "/auth/admin/login", "", map[string]any{
		"identifier": "admin@example.com",
		"password":   "admin-pass",
	})
	return payload["data"].(map[string]any)["auth"].(map[string]any)["token"].(string)
}

func TestCreateComplaintAuthenticated(t *testing.T) {
	f := newAPIFixture(t)
	token := f.registerVerifiedUser(t, "asha@example.com")

	resp, payload := f.request(t, http.MethodPost, "/complaints", token, map[string]any{
		"title":       "Streetlight out on MG Road",
		"description": "Dark stretch near the school gate.",
		"category":    "STREETLIGHT",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	data := payload["data"].(map[string]any)
	assert.Equal(t, "PENDING", data["status"])
	assert.NotNil(t, data["user_id"])
	assert.Regexp(t, `^CMP-[0-9A-F]{8}$`, data["reference"])

	resp, payload = f.request(t, http.MethodGet, "/complaints", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, payload["data"], 1)
}

func TestCreateComplaintAnonymous(t *testing.T) {
	f := newAPIFixture(t)

	resp, payload := f.request(t, http.MethodPost, "/complaints", "", map[string]any{
		"title":       "Garbage pileup",
		"description": "Sector 12 collection skipped for a week.",
		"category":    "GARBAGE",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	data := payload["data"].(map[string]any)
	assert.Nil(t, data["user_id"])
	assert.Equal(t, true, data["is_anonymous"])

	// Anyone can track by reference without a token.
	resp, payload = f.request(t, http.MethodGet, "/track/"+data["reference"].(string), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Garbage pileup", payload["data"].(map[string]any)["title"])
}

func TestCreateComplaintValidation(t *testing.T) {
	f := newAPIFixture(t)

	resp, payload := f.request(t, http.MethodPost, "/complaints", "", map[string]any{
		"title":       "",
		"description": "something",
		"category":    "GARBAGE",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", payload["error"].(map[string]any)["code"])
}

func TestAdminUpdateCreatesNotification(t *testing.T) {
	f := newAPIFixture(t)
	userToken := f.registerVerifiedUser(t, "asha@example.com")
	adminToken := f.adminToken(t)

	_, payload := f.request(t, http.MethodPost, "/complaints", userToken, map[string]any{
		"title":       "Pothole on station road",
		"description": "Two-wheeler hazard near the bus stop.",
		"category":    "ROAD_POTHOLES",
	})
	complaintID := payload["data"].(map[string]any)["id"].(string)
	reference := payload["data"].(map[string]any)["reference"].(string)

	// Citizens cannot reach triage routes.
	resp, _ := f.request(t, http.MethodPatch, "/admin/complaints/"+complaintID, userToken, map[string]any{
		"status": "IN_PROGRESS",
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, payload = f.request(t, http.MethodPatch, "/admin/complaints/"+complaintID, adminToken, map[string]any{
		"status":  "IN_PROGRESS",
		"remarks": "Crew scheduled",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "IN_PROGRESS", payload["data"].(map[string]any)["status"])

	resp, payload = f.request(t, http.MethodGet, "/notifications", userToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := payload["data"].([]any)
	require.Len(t, items, 1)
	notification := items[0].(map[string]any)
	assert.Equal(t, false, notification["is_read"])
	assert.Equal(t, `The status of your complaint #`+reference+` has been updated to "In Progress".`, notification["message"])

	// Mark read is idempotent and owner-scoped.
	notificationID := notification["id"].(string)
	resp, _ = f.request(t, http.MethodPost, "/notifications/"+notificationID+"/read", userToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, payload = f.request(t, http.MethodPost, "/notifications/"+notificationID+"/read", userToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, payload["data"].(map[string]any)["is_read"])

	resp, payload = f.request(t, http.MethodGet, "/admin/complaints/"+complaintID+"/history", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, payload["data"], 1)
}

func TestComplaintOwnershipHiddenAsNotFound(t *testing.T) {
	f := newAPIFixture(t)
	ownerToken := f.registerVerifiedUser(t, "owner@example.com")
	otherToken := f.registerVerifiedUser(t, "other@example.com")

	_, payload := f.request(t, http.MethodPost, "/complaints", ownerToken, map[string]any{
		"title":       "No water supply",
		"description": "Ward 7 dry since Monday.",
		"category":    "WATER_SUPPLY",
	})
	complaintID := payload["data"].(map[string]any)["id"].(string)

	resp, _ := f.request(t, http.MethodGet, "/complaints/"+complaintID, ownerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, payload = f.request(t, http.MethodGet, "/complaints/"+complaintID, otherToken, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", payload["error"].(map[string]any)["code"])
}

func TestUnverifiedLoginRejected(t *testing.T) {
	f := newAPIFixture(t)

	resp, _ := f.request(t, http.MethodPost, "/auth/users/register", "", map[string]any{
		"name":     "Ravi",
		"email":    "ravi@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, payload := f.request(t, http.MethodPost, "/auth/users/login", "", map[string]any{
		"identifier": "ravi@example.com",
		"password":   "secret123",
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "NOT_VERIFIED", payload["error"].(map[string]any)["code"])
}

func TestMetaOptionsLocalized(t *testing.T) {
	f := newAPIFixture(t)

	resp, payload := f.request(t, http.MethodGet, "/meta/options?lang=hi", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := payload["data"].(map[string]any)
	assert.Equal(t, "hi", data["lang"])
	assert.Len(t, data["categories"], 5)
	assert.Len(t, data["statuses"], 3)

	// Unknown locales fall back to English.
	resp, payload = f.request(t, http.MethodGet, "/meta/options?lang=fr", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "en", payload["data"].(map[string]any)["lang"])
}

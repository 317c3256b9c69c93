package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"serenity-backend/internal/middleware"
	"serenity-backend/internal/models"
	"serenity-backend/internal/services"
	"serenity-backend/pkg/logger"
)

type stubUserRepoForAuth struct {
	user *models.User
}

func (s *stubUserRepoForAuth) Create(ctx context.Context, user *models.User) error {
	user.ID = uuid.New()
	return nil
}

func (s *stubUserRepoForAuth) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, pgx.ErrNoRows
	}
	return s.user, nil
}

func (s *stubUserRepoForAuth) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.user == nil {
		return nil, pgx.ErrNoRows
	}
	return s.user, nil
}

func (s *stubUserRepoForAuth) UpdateLastLogin(ctx context.Context, userID uuid.UUID) error {
	return nil
}

// Only failure paths run here; those never reach Redis, so nil is safe.
func newTestAuthHandler(repo *stubUserRepoForAuth) *AuthHandler {
	svc := services.NewAuthService(repo, nil, middleware.NewJWTAuth("test-secret"))
	return NewAuthHandler(svc, logger.NewNop())
}

func postJSON(target, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var payload map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return payload["message"]
}

func TestAuthHandler_Register_ValidationError(t *testing.T) {
	h := newTestAuthHandler(&stubUserRepoForAuth{})

	rr := httptest.NewRecorder()
	h.Register(rr, postJSON("/api/v1/auth/register", `{"username":"","email":"bad","password":"x"}`))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
	if decodeMessage(t, rr) == "" {
		t.Fatalf("expected a validation message in the body")
	}
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	h := newTestAuthHandler(&stubUserRepoForAuth{user: &models.User{Email: "taken@example.com"}})

	rr := httptest.NewRecorder()
	h.Register(rr, postJSON("/api/v1/auth/register",
		`{"username":"sam","email":"taken@example.com","password":"secret1"}`))

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", rr.Code)
	}
	if msg := decodeMessage(t, rr); msg != "Email already in use" {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), 12)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	h := newTestAuthHandler(&stubUserRepoForAuth{user: &models.User{
		ID:           uuid.New(),
		Email:        "sam@example.com",
		PasswordHash: string(hash),
		IsActive:     true,
	}})

	tests := []struct {
		name string
		body string
	}{
		{"unknown email", `{"email":"nobody@example.com","password":"whatever"}`},
		{"wrong password", `{"email":"sam@example.com","password":"wrong"}`},
	}

	var messages []string
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.Login(rr, postJSON("/api/v1/auth/login", tc.body))

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", rr.Code)
			}
			messages = append(messages, decodeMessage(t, rr))
		})
	}

	if len(messages) == 2 && messages[0] != messages[1] {
		t.Fatalf("responses must not reveal which credential failed: %q vs %q", messages[0], messages[1])
	}
}

func TestAuthHandler_Register_MalformedBody(t *testing.T) {
	h := newTestAuthHandler(&stubUserRepoForAuth{})

	rr := httptest.NewRecorder()
	h.Register(rr, postJSON("/api/v1/auth/register", `{broken`))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
	if msg := decodeMessage(t, rr); msg != "Invalid request body" {
		t.Fatalf("unexpected message: %q", msg)
	}
}

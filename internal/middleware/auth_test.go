package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
)

func protectedEcho(t *testing.T, gotUserID *uuid.UUID) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*gotUserID = GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestJWTAuth_ValidToken(t *testing.T) {
	auth := NewJWTAuth("test-secret")
	userID := uuid.New()

	token, err := auth.GenerateAccessToken(userID, time.Hour)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	var gotUserID uuid.UUID
	handler := auth.Middleware(protectedEcho(t, &gotUserID))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/chat/history", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if gotUserID != userID {
		t.Fatalf("expected user id %s in context, got %s", userID, gotUserID)
	}
}

func TestJWTAuth_Rejections(t *testing.T) {
	auth := NewJWTAuth("test-secret")

	expired, err := auth.GenerateAccessToken(uuid.New(), -time.Minute)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	otherSecret := NewJWTAuth("other-secret")
	foreign, err := otherSecret.GenerateAccessToken(uuid.New(), time.Hour)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic dXNlcjpwYXNz"},
		{"garbage token", "Bearer not.a.jwt"},
		{"expired token", "Bearer " + expired},
		{"wrong signing key", "Bearer " + foreign},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var gotUserID uuid.UUID
			handler := auth.Middleware(protectedEcho(t, &gotUserID))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/chat/history", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("expected status 401, got %d", rr.Code)
			}
			if gotUserID != uuid.Nil {
				t.Fatalf("handler should not run for a rejected request")
			}
			if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
				t.Fatalf("expected JSON error body, got Content-Type %q", ct)
			}
		})
	}
}

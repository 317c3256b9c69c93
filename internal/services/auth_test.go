package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"serenity-backend/internal/middleware"
	"serenity-backend/internal/models"
)

type stubUserRepo struct {
	user       *models.User
	getErr     error
	createErr  error
	created    bool
	lastLogins int
}

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = true
	user.ID = uuid.New()
	return nil
}

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.user == nil || s.user.Email != email {
		return nil, pgx.ErrNoRows
	}
	return s.user, nil
}

func (s *stubUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.user == nil {
		return nil, pgx.ErrNoRows
	}
	return s.user, nil
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, userID uuid.UUID) error {
	s.lastLogins++
	return nil
}

func newTestAuth(repo *stubUserRepo) *AuthService {
	// Failure paths never reach Redis, so nil is fine here.
	return NewAuthService(repo, nil, middleware.NewJWTAuth("test-secret"))
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name  string
		req   models.RegisterRequest
		field string
	}{
		{"missing username", models.RegisterRequest{Email: "a@b.com", Password: "secret1"}, "username"},
		{"invalid email", models.RegisterRequest{Username: "sam", Email: "not-an-email", Password: "secret1"}, "email"},
		{"short password", models.RegisterRequest{Username: "sam", Email: "a@b.com", Password: "abc"}, "password"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &stubUserRepo{}
			svc := newTestAuth(repo)

			_, err := svc.Register(context.Background(), tc.req)

			var valErr *ValidationError
			if !errors.As(err, &valErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if _, ok := valErr.Fields[tc.field]; !ok {
				t.Fatalf("expected %q in field errors, got %v", tc.field, valErr.Fields)
			}
			if repo.created {
				t.Fatalf("user should not be created on validation failure")
			}
		})
	}
}

func TestRegister_CollectsAllFieldErrors(t *testing.T) {
	repo := &stubUserRepo{}
	svc := newTestAuth(repo)

	_, err := svc.Register(context.Background(), models.RegisterRequest{})

	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(valErr.Fields) != 3 {
		t.Fatalf("expected all 3 fields reported at once, got %v", valErr.Fields)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := &stubUserRepo{user: &models.User{Email: "taken@example.com"}}
	svc := newTestAuth(repo)

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Username: "sam",
		Email:    "taken@example.com",
		Password: "secret1",
	})

	var conflictErr *ConflictError
	if !errors.As(err, &conflictErr) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if repo.created {
		t.Fatalf("user should not be created when the email is taken")
	}
}

func TestLogin_InvalidCredentialsAreIndistinguishable(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), 12)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	repo := &stubUserRepo{user: &models.User{
		ID:           uuid.New(),
		Email:        "sam@example.com",
		PasswordHash: string(hash),
		IsActive:     true,
	}}
	svc := newTestAuth(repo)

	_, unknownErr := svc.Login(context.Background(), models.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	_, wrongPassErr := svc.Login(context.Background(), models.LoginRequest{
		Email:    "sam@example.com",
		Password: "wrong-password",
	})

	var credErr *InvalidCredentialsError
	if !errors.As(unknownErr, &credErr) {
		t.Fatalf("expected InvalidCredentialsError for unknown email, got %v", unknownErr)
	}
	if !errors.As(wrongPassErr, &credErr) {
		t.Fatalf("expected InvalidCredentialsError for wrong password, got %v", wrongPassErr)
	}
	if unknownErr.Error() != wrongPassErr.Error() {
		t.Fatalf("error messages must not reveal which check failed: %q vs %q",
			unknownErr.Error(), wrongPassErr.Error())
	}
	if repo.lastLogins != 0 {
		t.Fatalf("last login should not be recorded on failure")
	}
}

func TestLogin_InactiveAccount(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), 12)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	repo := &stubUserRepo{user: &models.User{
		ID:           uuid.New(),
		Email:        "sam@example.com",
		PasswordHash: string(hash),
		IsActive:     false,
	}}
	svc := newTestAuth(repo)

	_, loginErr := svc.Login(context.Background(), models.LoginRequest{
		Email:    "sam@example.com",
		Password: "correct-password",
	})

	var credErr *InvalidCredentialsError
	if !errors.As(loginErr, &credErr) {
		t.Fatalf("expected InvalidCredentialsError for inactive account, got %v", loginErr)
	}
}

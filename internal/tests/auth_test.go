package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"fleet/internal/domain"
	"fleet/internal/service"
)

const testSecret = "test-secret"

func seedUser(t *testing.T, userRepo *MockUserRepository, email, password string, role domain.UserRole) *domain.User {
	t.Helper()
	hash, err := service.HashPassword(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &domain.User{
		ID:           "user-" + email,
		FirstName:    "Maria",
		PaternalName: "Lopez",
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now(),
	}
	userRepo.AddUser(user)
	return user
}

func TestLogin_IssuesToken(t *testing.T) {
	ctx := context.Background()
	userRepo := NewMockUserRepository()
	user := seedUser(t, userRepo, "maria@fleet.mx", "s3cret", domain.UserRoleAdmin)

	svc := service.NewAuthService(userRepo, testSecret, time.Hour)
	result, err := svc.Login(ctx, "maria@fleet.mx", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(result.Token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims["sub"] != user.ID {
		t.Errorf("expected sub %s, got %v", user.ID, claims["sub"])
	}
	if claims["role"] != string(domain.UserRoleAdmin) {
		t.Errorf("expected role ADMIN, got %v", claims["role"])
	}
}

func TestLogin_EmailIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	userRepo := NewMockUserRepository()
	seedUser(t, userRepo, "maria@fleet.mx", "s3cret", domain.UserRoleDriver)

	svc := service.NewAuthService(userRepo, testSecret, time.Hour)
	if _, err := svc.Login(ctx, "  Maria@Fleet.MX ", "s3cret"); err != nil {
		t.Fatalf("login with differently cased email failed: %v", err)
	}
}

func TestLogin_WrongPasswordAndUnknownEmailLookTheSame(t *testing.T) {
	ctx := context.Background()
	userRepo := NewMockUserRepository()
	seedUser(t, userRepo, "maria@fleet.mx", "s3cret", domain.UserRoleAdmin)

	svc := service.NewAuthService(userRepo, testSecret, time.Hour)

	_, errWrongPassword := svc.Login(ctx, "maria@fleet.mx", "wrong")
	_, errUnknownEmail := svc.Login(ctx, "nobody@fleet.mx", "s3cret")

	if !errors.Is(errWrongPassword, service.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", errWrongPassword)
	}
	if !errors.Is(errUnknownEmail, service.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", errUnknownEmail)
	}
}

func TestCreateUser_HashesPasswordAndRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	userRepo := NewMockUserRepository()
	svc := service.NewUserService(userRepo)

	user, err := svc.CreateUser(ctx, service.CreateUserRequest{
		FirstName: "Jorge",
		Email:     "jorge@fleet.mx",
		Password:  "s3cret",
		Role:      "DRIVER",
	})
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	if user.PasswordHash == "s3cret" || user.PasswordHash == "" {
		t.Fatal("password must be stored hashed")
	}

	_, err = svc.CreateUser(ctx, service.CreateUserRequest{
		FirstName: "Other",
		Email:     "JORGE@fleet.mx",
		Password:  "other",
		Role:      "ADMIN",
	})
	if !errors.Is(err, service.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestCreateUser_Validation(t *testing.T) {
	svc := service.NewUserService(NewMockUserRepository())
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, service.CreateUserRequest{Email: "a@b.mx", Password: "p", Role: "ADMIN"}); !errors.Is(err, service.ErrInvalidName) {
		t.Errorf("expected ErrInvalidName, got %v", err)
	}
	if _, err := svc.CreateUser(ctx, service.CreateUserRequest{FirstName: "A", Email: "notanemail", Password: "p", Role: "ADMIN"}); !errors.Is(err, service.ErrInvalidEmail) {
		t.Errorf("expected ErrInvalidEmail, got %v", err)
	}
	if _, err := svc.CreateUser(ctx, service.CreateUserRequest{FirstName: "A", Email: "a@b.mx", Role: "ADMIN"}); !errors.Is(err, service.ErrInvalidPassword) {
		t.Errorf("expected ErrInvalidPassword, got %v", err)
	}
	if _, err := svc.CreateUser(ctx, service.CreateUserRequest{FirstName: "A", Email: "a@b.mx", Password: "p", Role: "ROOT"}); !errors.Is(err, service.ErrInvalidRole) {
		t.Errorf("expected ErrInvalidRole, got %v", err)
	}
}

func TestUpdateUser_EmptyPasswordKeepsHash(t *testing.T) {
	ctx := context.Background()
	userRepo := NewMockUserRepository()
	svc := service.NewUserService(userRepo)

	user := seedUser(t, userRepo, "maria@fleet.mx", "s3cret", domain.UserRoleDriver)
	originalHash := user.PasswordHash

	updated, err := svc.UpdateUser(ctx, service.UpdateUserRequest{
		ID:        user.ID,
		FirstName: "Mariana",
	})
	if err != nil {
		t.Fatalf("failed to update user: %v", err)
	}
	if updated.FirstName != "Mariana" {
		t.Errorf("expected name update, got %s", updated.FirstName)
	}
	if updated.PasswordHash != originalHash {
		t.Error("update without password must keep the stored hash")
	}
}

package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"fleet/internal/domain"
	"fleet/internal/repository"
)

// UserService manages operator and driver accounts.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// CreateUserRequest carries the fields for registering an account.
type CreateUserRequest struct {
	FirstName    string
	PaternalName string
	MaternalName string
	Email        string
	Password     string
	Role         string
}

// CreateUser registers a new account with a hashed password.
func (s *UserService) CreateUser(ctx context.Context, req CreateUserRequest) (*domain.User, error) {
	if strings.TrimSpace(req.FirstName) == "" {
		return nil, ErrInvalidName
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	if req.Password == "" {
		return nil, ErrInvalidPassword
	}
	role, err := ValidateUserRole(req.Role)
	if err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New().String(),
		FirstName:    strings.TrimSpace(req.FirstName),
		PaternalName: strings.TrimSpace(req.PaternalName),
		MaternalName: strings.TrimSpace(req.MaternalName),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	return s.userRepo.GetByID(ctx, userID)
}

// GetAllUsers lists every account.
func (s *UserService) GetAllUsers(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.GetAll(ctx)
}

// UpdateUserRequest carries the updatable account fields. An empty password
// leaves the stored hash untouched.
type UpdateUserRequest struct {
	ID           string
	FirstName    string
	PaternalName string
	MaternalName string
	Email        string
	Password     string
	Role         string
}

// UpdateUser updates an account's profile, role and optionally password.
func (s *UserService) UpdateUser(ctx context.Context, req UpdateUserRequest) (*domain.User, error) {
	if req.ID == "" {
		return nil, ErrInvalidUserID
	}
	user, err := s.userRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.FirstName) != "" {
		user.FirstName = strings.TrimSpace(req.FirstName)
	}
	if strings.TrimSpace(req.PaternalName) != "" {
		user.PaternalName = strings.TrimSpace(req.PaternalName)
	}
	if strings.TrimSpace(req.MaternalName) != "" {
		user.MaternalName = strings.TrimSpace(req.MaternalName)
	}
	if req.Email != "" {
		email := strings.TrimSpace(strings.ToLower(req.Email))
		if !strings.Contains(email, "@") {
			return nil, ErrInvalidEmail
		}
		if email != user.Email {
			if existing, err := s.userRepo.GetByEmail(ctx, email); err == nil && existing.ID != user.ID {
				return nil, ErrEmailTaken
			} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
			user.Email = email
		}
	}
	if req.Role != "" {
		role, err := ValidateUserRole(req.Role)
		if err != nil {
			return nil, err
		}
		user.Role = role
	}

	user.PasswordHash = ""
	if req.Password != "" {
		hash, err := HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, req.ID)
}

// DeleteUser removes an account.
func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrInvalidUserID
	}
	return s.userRepo.Delete(ctx, userID)
}

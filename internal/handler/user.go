package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fleet/internal/domain"
	"fleet/internal/service"
)

// UserHandler handles HTTP requests for user accounts.
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUserRequest is the HTTP request body for registering an account.
type CreateUserRequest struct {
	FirstName    string `json:"first_name"`
	PaternalName string `json:"paternal_name,omitempty"`
	MaternalName string `json:"maternal_name,omitempty"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Role         string `json:"role"` // ADMIN, DRIVER
}

// UpdateUserRequest is the HTTP request body for updating an account.
type UpdateUserRequest struct {
	FirstName    string `json:"first_name,omitempty"`
	PaternalName string `json:"paternal_name,omitempty"`
	MaternalName string `json:"maternal_name,omitempty"`
	Email        string `json:"email,omitempty"`
	Password     string `json:"password,omitempty"`
	Role         string `json:"role,omitempty"`
}

// UserResponse is the HTTP representation of an account. The password hash
// never leaves the server.
type UserResponse struct {
	ID           string `json:"id"`
	FirstName    string `json:"first_name"`
	PaternalName string `json:"paternal_name,omitempty"`
	MaternalName string `json:"maternal_name,omitempty"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	CreatedAt    string `json:"created_at"`
}

func toUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:           user.ID,
		FirstName:    user.FirstName,
		PaternalName: user.PaternalName,
		MaternalName: user.MaternalName,
		Email:        user.Email,
		Role:         string(user.Role),
		CreatedAt:    user.CreatedAt.Format(time.RFC3339),
	}
}

// CreateUser handles POST /v1/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), service.CreateUserRequest{
		FirstName:    req.FirstName,
		PaternalName: req.PaternalName,
		MaternalName: req.MaternalName,
		Email:        req.Email,
		Password:     req.Password,
		Role:         req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toUserResponse(user))
}

// GetUser handles GET /v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toUserResponse(user))
}

// ListUsers handles GET /v1/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.GetAllUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	respondJSON(c, http.StatusOK, out)
}

// UpdateUser handles PUT /v1/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), service.UpdateUserRequest{
		ID:           c.Param("id"),
		FirstName:    req.FirstName,
		PaternalName: req.PaternalName,
		MaternalName: req.MaternalName,
		Email:        req.Email,
		Password:     req.Password,
		Role:         req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toUserResponse(user))
}

// DeleteUser handles DELETE /v1/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.userService.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"roboadvisor_backend/models"
	"roboadvisor_backend/repository"
)

// UserStore creates and loads guest users
type UserStore interface {
	Create(ctx context.Context) (*models.User, error)
	FindByID(ctx context.Context, userID string) (*models.User, error)
}

// UserController handles guest user endpoints
type UserController struct {
	users UserStore
}

// NewUserController creates a new user controller
func NewUserController(users UserStore) *UserController {
	return &UserController{users: users}
}

// UserResponse is the public view of a user
type UserResponse struct {
	UserID         string    `json:"userId"`
	CreatedAt      time.Time `json:"createdAt"`
	LastActivityAt time.Time `json:"lastActivityAt"`
}

// CreateGuest creates an anonymous user and returns its id
// POST /api/users
func (uc *UserController) CreateGuest(c *gin.Context) {
	user, err := uc.users.Create(c.Request.Context())
	if err != nil {
		respondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"userId": user.UserID})
}

// GetUser returns basic user info
// GET /api/users/:userId
func (uc *UserController) GetUser(c *gin.Context) {
	user, err := uc.users.FindByID(c.Request.Context(), c.Param("userId"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(c, ErrCodeUserNotFound)
			return
		}
		respondInternal(c, err)
		return
	}

	c.JSON(http.StatusOK, UserResponse{
		UserID:         user.UserID,
		CreatedAt:      user.CreatedAt,
		LastActivityAt: user.LastActivityAt,
	})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wardrobify/wardrobify/internal/services"
	appErrors "github.com/wardrobify/wardrobify/pkg/errors"
	"github.com/wardrobify/wardrobify/pkg/response"
)

// UserHandler exposes the authenticated user's profile.
type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type updateUserRequest struct {
	Username *string `json:"new_username"`
	Password *string `json:"new_password"`
	Email    *string `json:"new_email" validate:"omitempty,email"`
	Location *string `json:"new_location"`
}

// GET /api/user
func (h *UserHandler) GetCurrent(c *gin.Context) {
	user, err := h.users.GetByID(requestContext(c), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

// GET /api/user/:username
func (h *UserHandler) GetByUsername(c *gin.Context) {
	username := c.Param("username")
	if username != currentUsername(c) {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	user, err := h.users.GetByUsername(requestContext(c), username)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

// PUT /api/user
func (h *UserHandler) Update(c *gin.Context) {
	var req updateUserRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := h.users.Update(requestContext(c), currentUserID(c), services.UpdateUserInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Location: req.Location,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

// DELETE /api/user
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.users.Delete(requestContext(c), currentUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	// Sessions cascade with the account; the cookie is now worthless.
	clearSessionCookie(c)
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

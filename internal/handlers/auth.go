package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	iauth "github.com/wardrobify/wardrobify/internal/auth"
	"github.com/wardrobify/wardrobify/internal/middleware"
	"github.com/wardrobify/wardrobify/internal/services"
	appErrors "github.com/wardrobify/wardrobify/pkg/errors"
	"github.com/wardrobify/wardrobify/pkg/logger"
	"github.com/wardrobify/wardrobify/pkg/metrics"
	"github.com/wardrobify/wardrobify/pkg/response"
)

const dashboardPath = "/dashboard"

// AuthHandler manages signup, login, and logout.
type AuthHandler struct {
	users    *services.UserService
	sessions *iauth.SessionService
	log      *zap.Logger
}

func NewAuthHandler(users *services.UserService, sessions *iauth.SessionService) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions, log: logger.WithModule("auth")}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type signupRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Location string `json:"location" validate:"required"`
}

// POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := h.users.Authenticate(requestContext(c), req.Username, req.Password)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		response.Error(c, appErrors.ErrInvalidCredentials)
		return
	}

	h.establishSession(c, user.ID)
}

// POST /signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := h.users.Create(requestContext(c), services.CreateUserInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Location: req.Location,
	})
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		response.Error(c, err)
		return
	}

	h.establishSession(c, user.ID)
}

// POST /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(middleware.SessionCookieName); err == nil && token != "" {
		if err := h.sessions.Delete(requestContext(c), token); err != nil {
			h.log.Warn("session delete failed on logout", zap.Error(err))
		}
	}

	clearSessionCookie(c)
	c.Redirect(http.StatusFound, middleware.LoginPath)
}

// establishSession mints a fresh session, sets the cookie, and sends the
// client to the dashboard.
func (h *AuthHandler) establishSession(c *gin.Context, userID string) {
	token, err := h.sessions.Create(requestContext(c), userID)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		h.log.Error("session create failed", zap.Error(err))
		response.Error(c, appErrors.ErrInternalServer)
		return
	}

	metrics.AuthAttempts.WithLabelValues("success").Inc()
	setSessionCookie(c, token)
	c.Redirect(http.StatusFound, dashboardPath)
}

func setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(middleware.SessionCookieName, token, 0, "/", "", false, true)
}

func clearSessionCookie(c *gin.Context) {
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)
}

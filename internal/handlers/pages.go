package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	iauth "github.com/wardrobify/wardrobify/internal/auth"
	"github.com/wardrobify/wardrobify/internal/middleware"
	appErrors "github.com/wardrobify/wardrobify/pkg/errors"
	"github.com/wardrobify/wardrobify/pkg/logger"
	"github.com/wardrobify/wardrobify/pkg/response"
	"github.com/wardrobify/wardrobify/web"
)

// PageHandler serves the embedded HTML documents.
type PageHandler struct {
	sessions *iauth.SessionService
	log      *zap.Logger
}

func NewPageHandler(sessions *iauth.SessionService) *PageHandler {
	return &PageHandler{sessions: sessions, log: logger.WithModule("pages")}
}

// Public serves an unauthenticated page, bouncing visitors with a live
// session straight to the dashboard.
func (h *PageHandler) Public(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(middleware.SessionCookieName); err == nil && token != "" {
			if _, err := h.sessions.Resolve(requestContext(c), token); err == nil {
				c.Redirect(http.StatusFound, dashboardPath)
				return
			}
		}
		h.servePage(c, name, "")
	}
}

// Private serves a session-guarded page with {username} substituted.
func (h *PageHandler) Private(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.servePage(c, name, currentUsername(c))
	}
}

// Profile serves the profile page; users can only view their own.
func (h *PageHandler) Profile(c *gin.Context) {
	username := currentUsername(c)
	if c.Param("username") != username {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	h.servePage(c, "profile", username)
}

func (h *PageHandler) servePage(c *gin.Context, name, username string) {
	content, err := web.RenderPage(name, username)
	if err != nil {
		h.log.Error("page render failed", zap.String("page", name), zap.Error(err))
		response.Error(c, appErrors.ErrInternalServer)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(content))
}

package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/wardrobify/wardrobify/internal/middleware"
)

// requestContext safely returns the request context with a background fallback for tests.
func requestContext(c *gin.Context) context.Context {
	if c == nil {
		return context.Background()
	}
	if req := c.Request; req != nil {
		return req.Context()
	}
	return context.Background()
}

// currentUserID returns the authenticated user's id set by the session guard.
func currentUserID(c *gin.Context) string {
	return c.GetString(middleware.CtxUserIDKey)
}

// currentUsername returns the authenticated user's username set by the session guard.
func currentUsername(c *gin.Context) string {
	return c.GetString(middleware.CtxUsernameKey)
}

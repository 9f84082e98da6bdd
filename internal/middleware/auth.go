package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	iauth "github.com/wardrobify/wardrobify/internal/auth"
	"github.com/wardrobify/wardrobify/pkg/errors"
	"github.com/wardrobify/wardrobify/pkg/response"
)

const (
	CtxUserIDKey   = "userID"
	CtxUsernameKey = "username"

	// SessionCookieName is the cookie carrying the opaque session token.
	SessionCookieName = "sessionId"

	// LoginPath is where unauthenticated page requests are redirected.
	LoginPath = "/login"
)

// RequireSession guards JSON API routes. Any unauthenticated outcome —
// missing cookie, unknown token, expired session, deleted user — is
// normalised to a machine-readable 401.
func RequireSession(sessions *iauth.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := resolveSession(c, sessions)
		if !ok {
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		setIdentity(c, identity)
		c.Next()
	}
}

// RequireSessionPage guards browser page routes. Unauthenticated requests
// are redirected to the login page rather than receiving an error payload.
func RequireSessionPage(sessions *iauth.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := resolveSession(c, sessions)
		if !ok {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}

		setIdentity(c, identity)
		c.Next()
	}
}

// resolveSession is the shared guard core: both policies differ only in how
// they surface an unauthenticated outcome.
func resolveSession(c *gin.Context, sessions *iauth.SessionService) (*iauth.Identity, bool) {
	if sessions == nil {
		return nil, false
	}

	token, err := c.Cookie(SessionCookieName)
	if err != nil || token == "" {
		return nil, false
	}

	identity, err := sessions.Resolve(c.Request.Context(), token)
	if err != nil {
		return nil, false
	}

	return identity, true
}

func setIdentity(c *gin.Context, identity *iauth.Identity) {
	c.Set(CtxUserIDKey, identity.UserID)
	c.Set(CtxUsernameKey, identity.Username)
}

package middlewares

import (
	"context"
	"net/http"

	"github.com/geocoder89/filehub/internal/domain/user"
	"github.com/gin-gonic/gin"
)

// Keep these small interfaces so tests can fake them easily.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (int64, bool, error)
}

type UserFinder interface {
	ByID(ctx context.Context, id int64) (user.User, error)
}

type AuthMiddleware struct {
	sessions SessionResolver
	users    UserFinder
}

func NewAuthMiddleware(sessions SessionResolver, users UserFinder) *AuthMiddleware {
	return &AuthMiddleware{
		sessions: sessions,
		users:    users,
	}
}

const tokenHeader = "X-Token"

// RequireToken resolves the X-Token header to a user and aborts with 401
// when it can't. The token must map to a live session AND the session's
// user must still exist.
func (m *AuthMiddleware) RequireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, token, ok := m.resolve(c)

		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(CtxActorID, actor)
		c.Set(CtxToken, token)

		c.Next()
	}
}

// OptionalToken resolves the X-Token header when present but never aborts.
// Requests without a usable token proceed as anonymous.
func (m *AuthMiddleware) OptionalToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor, token, ok := m.resolve(c); ok {
			c.Set(CtxActorID, actor)
			c.Set(CtxToken, token)
		}

		c.Next()
	}
}

func (m *AuthMiddleware) resolve(c *gin.Context) (int64, string, bool) {
	token := c.GetHeader(tokenHeader)

	if token == "" {
		return 0, "", false
	}

	actor, ok, err := m.sessions.Resolve(c.Request.Context(), token)

	if err != nil || !ok {
		return 0, "", false
	}

	if _, err := m.users.ByID(c.Request.Context(), actor); err != nil {
		return 0, "", false
	}

	return actor, token, true
}

// Helpers so handlers don't need to know the magic keys.

// ActorFromContext returns the authenticated user id, or 0 for anonymous
// requests.
func ActorFromContext(c *gin.Context) int64 {
	v, ok := c.Get(CtxActorID)
	if !ok {
		return 0
	}
	id, ok := v.(int64)
	if !ok {
		return 0
	}
	return id
}

func TokenFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxToken)
	if !ok {
		return "", false
	}
	token, ok := v.(string)
	return token, ok && token != ""
}

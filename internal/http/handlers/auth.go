package handlers

import (
	"net/http"
	"time"

	"github.com/geocoder89/filehub/internal/config"
	"github.com/geocoder89/filehub/internal/http/middlewares"
	"github.com/geocoder89/filehub/internal/identity"
	"github.com/geocoder89/filehub/internal/session"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	identity *identity.Service
	sessions session.Store
	ttl      time.Duration
}

func NewAuthHandler(svc *identity.Service, sessions session.Store, ttl time.Duration) *AuthHandler {
	if ttl <= 0 {
		ttl = session.DefaultTTL
	}

	return &AuthHandler{
		identity: svc,
		sessions: sessions,
		ttl:      ttl,
	}
}

// GetConnect exchanges Basic credentials for an opaque session token.
func (h *AuthHandler) GetConnect(ctx *gin.Context) {
	email, password, ok := ctx.Request.BasicAuth()

	if !ok {
		RespondUnauthorized(ctx)
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	u, err := h.identity.Verify(cctx, email, password)

	if err != nil {
		RespondUnauthorized(ctx)
		return
	}

	token, err := h.sessions.Issue(cctx, u.ID, h.ttl)

	if err != nil {
		RespondInternal(ctx)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"token": token})
}

// GetDisconnect revokes the presented token. Runs behind RequireToken, so
// the token is known to be live.
func (h *AuthHandler) GetDisconnect(ctx *gin.Context) {
	token, ok := middlewares.TokenFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx)
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	if err := h.sessions.Revoke(cctx, token); err != nil {
		RespondInternal(ctx)
		return
	}

	ctx.Status(http.StatusNoContent)
}

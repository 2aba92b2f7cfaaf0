package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/geocoder89/filehub/internal/config"
	"github.com/geocoder89/filehub/internal/domain/user"
	"github.com/geocoder89/filehub/internal/http/middlewares"
	"github.com/geocoder89/filehub/internal/identity"
	"github.com/gin-gonic/gin"
)

type UsersHandler struct {
	identity *identity.Service
}

func NewUsersHandler(svc *identity.Service) *UsersHandler {
	return &UsersHandler{identity: svc}
}

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *UsersHandler) PostNew(ctx *gin.Context) {
	var req CreateUserRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	u, err := h.identity.Register(cctx, req.Email, req.Password)

	if err != nil {
		switch {
		case errors.Is(err, user.ErrMissingEmail),
			errors.Is(err, user.ErrMissingPassword),
			errors.Is(err, user.ErrEmailTaken):
			RespondBadRequest(ctx, err.Error())
		default:
			RespondInternal(ctx)
		}
		return
	}

	ctx.JSON(http.StatusCreated, userJSON(u))
}

// GetMe returns the account behind the presented token.
func (h *UsersHandler) GetMe(ctx *gin.Context) {
	actor := middlewares.ActorFromContext(ctx)

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	u, err := h.identity.ByID(cctx, actor)

	if err != nil {
		RespondUnauthorized(ctx)
		return
	}

	ctx.JSON(http.StatusOK, userJSON(u))
}

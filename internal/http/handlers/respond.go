package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Every error response is a flat {"error": "<message>"} body. Clients
// match on the message text, so the exact strings matter.

func RespondError(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{"error": message})
}

func RespondBadRequest(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusBadRequest, message)
}

func RespondUnauthorized(ctx *gin.Context) {
	RespondError(ctx, http.StatusUnauthorized, "Unauthorized")
}

func RespondNotFound(ctx *gin.Context) {
	RespondError(ctx, http.StatusNotFound, "Not found")
}

func RespondInternal(ctx *gin.Context) {
	RespondError(ctx, http.StatusInternalServerError, "Oops! Something went wrong!")
}

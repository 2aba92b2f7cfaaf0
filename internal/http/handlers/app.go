package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/geocoder89/filehub/internal/cache"
	"github.com/geocoder89/filehub/internal/config"
	"github.com/gin-gonic/gin"
)

// Keep these small interfaces so tests can fake them easily.
type UserCounter interface {
	Count(ctx context.Context) (int64, error)
}

type FileCounter interface {
	Count(ctx context.Context) (int64, error)
}

type AppHandler struct {
	dbPing    func(ctx context.Context) error
	redisPing func(ctx context.Context) error
	users     UserCounter
	files     FileCounter
	stats     *cache.Cache[int64]
}

func NewAppHandler(dbPing, redisPing func(ctx context.Context) error, users UserCounter, files FileCounter) *AppHandler {
	return &AppHandler{
		dbPing:    dbPing,
		redisPing: redisPing,
		users:     users,
		files:     files,
		stats:     cache.New[int64](5 * time.Second),
	}
}

// GetStatus reports backend liveness. Always 200, the body carries the
// per-backend verdict.
func (h *AppHandler) GetStatus(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	ctx.JSON(http.StatusOK, gin.H{
		"redis": h.redisPing(cctx) == nil,
		"db":    h.dbPing(cctx) == nil,
	})
}

func (h *AppHandler) GetStats(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	users, err := h.countCached(cctx, "stats:users", h.users.Count)

	if err != nil {
		RespondInternal(ctx)
		return
	}

	files, err := h.countCached(cctx, "stats:files", h.files.Count)

	if err != nil {
		RespondInternal(ctx)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"users": users,
		"files": files,
	})
}

func (h *AppHandler) countCached(ctx context.Context, key string, count func(context.Context) (int64, error)) (int64, error) {
	if n, ok := h.stats.Get(key); ok {
		return n, nil
	}

	n, err := count(ctx)

	if err != nil {
		return 0, err
	}

	h.stats.Set(key, n)

	return n, nil
}

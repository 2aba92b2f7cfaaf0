package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/geocoder89/filehub/internal/blob"
	"github.com/geocoder89/filehub/internal/config"
	"github.com/geocoder89/filehub/internal/fileops"
	"github.com/geocoder89/filehub/internal/http/handlers"
	"github.com/geocoder89/filehub/internal/http/middlewares"
	"github.com/geocoder89/filehub/internal/identity"
	"github.com/geocoder89/filehub/internal/jobs"
	"github.com/geocoder89/filehub/internal/kv"
	"github.com/geocoder89/filehub/internal/observability"
	"github.com/geocoder89/filehub/internal/queue"
	"github.com/geocoder89/filehub/internal/repo/postgres"
	"github.com/geocoder89/filehub/internal/security"
	"github.com/geocoder89/filehub/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const maxUploadBytes = 16 << 20 // base64 payloads included

func NewRouter(cfg config.Config, log *slog.Logger, pool *pgxpool.Pool, kvc *kv.Client, blobs blob.Store) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// metrics
	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	// middleware
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSOrigins))
	r.Use(middlewares.MaxBodyBytes(maxUploadBytes))
	r.Use(otelgin.Middleware("filehub-api"))
	r.Use(prom.GinHandleMiddleware())

	// wire up repositories and services
	usersRepo := postgres.NewUsersRepo(pool)
	filesRepo := postgres.NewFilesRepo(pool)

	sessions := session.NewRedisStore(kvc.Raw())

	thumbQueue := queue.NewRedisQueue(kvc.Raw(), jobs.JobThumbnail.QueueKey())
	welcomeQueue := queue.NewRedisQueue(kvc.Raw(), jobs.JobWelcome.QueueKey())

	identitySvc := identity.New(usersRepo, security.NewBcryptHasher(), welcomeQueue, log)
	filesSvc := fileops.New(filesRepo, blobs, thumbQueue, log)

	auth := middlewares.NewAuthMiddleware(sessions, identitySvc)

	// unauthenticated endpoints get limited per IP
	limiter := middlewares.NewRateLimiter(60, time.Minute)

	// handlers
	dbPing := func(ctx context.Context) error { return pool.Ping(ctx) }

	appHandler := handlers.NewAppHandler(dbPing, kvc.Ping, usersRepo, filesRepo)
	healthHandler := handlers.NewHealthHandler(dbPing)
	usersHandler := handlers.NewUsersHandler(identitySvc)
	authHandler := handlers.NewAuthHandler(identitySvc, sessions, cfg.SessionTTL)
	filesHandler := handlers.NewFilesHandler(filesSvc)

	// routes
	r.GET("/healthz", healthHandler.Healthz)
	r.GET("/readyz", healthHandler.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	r.GET("/status", appHandler.GetStatus)
	r.GET("/stats", appHandler.GetStats)

	r.POST("/users", limiter.RateLimiterMiddleware(middlewares.KeyByIP), usersHandler.PostNew)
	r.GET("/connect", limiter.RateLimiterMiddleware(middlewares.KeyByIP), authHandler.GetConnect)
	r.GET("/disconnect", auth.RequireToken(), authHandler.GetDisconnect)
	r.GET("/users/me", auth.RequireToken(), usersHandler.GetMe)

	r.POST("/files", auth.RequireToken(), filesHandler.PostUpload)
	r.GET("/files", auth.RequireToken(), filesHandler.GetIndex)
	r.GET("/files/:id", auth.RequireToken(), filesHandler.GetShow)
	r.PUT("/files/:id/publish", auth.RequireToken(), filesHandler.PutPublish)
	r.PUT("/files/:id/unpublish", auth.RequireToken(), filesHandler.PutUnpublish)
	// content is reachable anonymously, visibility decides access
	r.GET("/files/:id/data", auth.OptionalToken(), filesHandler.GetContent)

	return r
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/geocoder89/filehub/internal/blob"
	"github.com/geocoder89/filehub/internal/config"
	"github.com/geocoder89/filehub/internal/db"
	httpx "github.com/geocoder89/filehub/internal/http"
	"github.com/geocoder89/filehub/internal/kv"
	"github.com/geocoder89/filehub/internal/observability"
	"github.com/joho/godotenv"
)

func main() {
	// local development reads a .env file, missing is fine
	_ = godotenv.Load()

	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	shutdownTracer, err := observability.InitTracer(context.Background(), "filehub-api", cfg.OtelEndpoint)

	if err != nil {
		log.Error("tracer init failed", "err", err)
		os.Exit(1)
	}

	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	schemaCtx, cancelSchema := config.WithTimeout(10 * time.Second)
	err = db.EnsureSchema(schemaCtx, pool)
	cancelSchema()

	if err != nil {
		log.Error("schema setup failed", "err", err)
		os.Exit(1)
	}

	kvc := kv.New(kv.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer kvc.Close()

	blobs, err := newBlobStore(cfg)

	if err != nil {
		log.Error("blob store setup failed", "err", err)
		os.Exit(1)
	}

	router := httpx.NewRouter(cfg, log, pool, kvc, blobs)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}

		if err := shutdownTracer(ctx); err != nil {
			log.Error("tracer shutdown failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}

func newBlobStore(cfg config.Config) (blob.Store, error) {
	if cfg.BlobBackend == "s3" {
		ctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		return blob.NewS3Store(ctx, cfg.S3Bucket, cfg.S3Region)
	}

	return blob.NewFSStore(cfg.FolderPath)
}

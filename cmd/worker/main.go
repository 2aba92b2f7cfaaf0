package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/geocoder89/filehub/internal/blob"
	"github.com/geocoder89/filehub/internal/config"
	"github.com/geocoder89/filehub/internal/db"
	"github.com/geocoder89/filehub/internal/jobs"
	"github.com/geocoder89/filehub/internal/kv"
	"github.com/geocoder89/filehub/internal/notifications"
	"github.com/geocoder89/filehub/internal/observability"
	"github.com/geocoder89/filehub/internal/queue"
	"github.com/geocoder89/filehub/internal/repo/postgres"
	"github.com/geocoder89/filehub/internal/worker"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

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

	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	// metrics endpoint for scraping worker-side job gauges
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

		addr := fmt.Sprintf(":%d", cfg.MetricsPort)
		log.Info("metrics listening", "addr", addr)

		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Error("metrics server failed", "err", err)
		}
	}()

	usersRepo := postgres.NewUsersRepo(pool)
	filesRepo := postgres.NewFilesRepo(pool)

	thumbProc := worker.NewThumbnailProcessor(filesRepo, blobs, log)
	welcomeProc := worker.NewWelcomeProcessor(usersRepo, notifications.NewLogNotifier(log))

	thumbPool := worker.NewPool(worker.Config{
		Kind:        jobs.JobThumbnail,
		Concurrency: cfg.ThumbConcurrency,
		JobTimeout:  cfg.JobTimeout,
	}, queue.NewRedisQueue(kvc.Raw(), jobs.JobThumbnail.QueueKey()), thumbProc.Process, log, prom)

	welcomePool := worker.NewPool(worker.Config{
		Kind:        jobs.JobWelcome,
		Concurrency: cfg.WelcomeConcurrency,
		JobTimeout:  cfg.JobTimeout,
	}, queue.NewRedisQueue(kvc.Raw(), jobs.JobWelcome.QueueKey()), welcomeProc.Process, log, prom)

	go worker.LogCompletions(log, thumbPool.Events())
	go worker.LogCompletions(log, welcomePool.Events())

	log.Info("worker started",
		"thumb_concurrency", cfg.ThumbConcurrency,
		"welcome_concurrency", cfg.WelcomeConcurrency,
		"job_timeout", cfg.JobTimeout.String(),
	)

	var wg sync.WaitGroup

	wg.Add(2)

	go func() {
		defer wg.Done()
		thumbPool.Run(ctx)
	}()

	go func() {
		defer wg.Done()
		welcomePool.Run(ctx)
	}()

	wg.Wait()

	log.Info("worker shutdown complete")
}

func newBlobStore(cfg config.Config) (blob.Store, error) {
	if cfg.BlobBackend == "s3" {
		ctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		return blob.NewS3Store(ctx, cfg.S3Bucket, cfg.S3Region)
	}

	return blob.NewFSStore(cfg.FolderPath)
}

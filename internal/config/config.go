package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env         string
	Port        int
	MetricsPort int

	DBURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// blob storage
	BlobBackend string // "fs" or "s3"
	FolderPath  string
	S3Bucket    string
	S3Region    string

	SessionTTL  time.Duration
	CORSOrigins []string

	// worker pools
	ThumbConcurrency   int
	WelcomeConcurrency int
	JobTimeout         time.Duration

	OtelEndpoint string
}

func Load() Config {
	env := getEnv("APP_ENV", "dev")
	port := getEnvInt("PORT", 8080)
	dbURL := buildDBURL()

	return Config{
		Env:         env,
		Port:        port,
		MetricsPort: getEnvInt("METRICS_PORT", 9100),
		DBURL:       dbURL,

		RedisAddr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		BlobBackend: getEnv("BLOB_BACKEND", "fs"),
		FolderPath:  getEnv("FOLDER_PATH", "/tmp/filehub"),
		S3Bucket:    getEnv("S3_BUCKET", ""),
		S3Region:    getEnv("S3_REGION", "us-east-1"),

		SessionTTL:  getEnvDuration("SESSION_TTL", 24*time.Hour),
		CORSOrigins: getEnvList("CORS_ORIGINS", []string{"http://localhost:3000"}),

		ThumbConcurrency:   getEnvInt("THUMB_CONCURRENCY", 10),
		WelcomeConcurrency: getEnvInt("WELCOME_CONCURRENCY", 20),
		JobTimeout:         getEnvDuration("JOB_TIMEOUT", 2*time.Minute),

		OtelEndpoint: getEnv("OTEL_ENDPOINT", ""),
	}
}

func buildDBURL() string {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "filehub")
	pass := getEnv("DB_PASSWORD", "filehub")
	name := getEnv("DB_NAME", "filehub")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)

	if v == "" {
		return fallback
	}

	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return d
	}
	return fallback
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"studentrecords/internal/api"
	"studentrecords/internal/auth"
	"studentrecords/internal/cloudinary"
	"studentrecords/internal/config"
	"studentrecords/internal/metrics"
	"studentrecords/internal/queue"
	"studentrecords/internal/report"
	"studentrecords/internal/store"
	"studentrecords/internal/student"
)

func main() {
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func runHTTP(cfg config.App) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend, err := store.Open(ctx, store.Options{
		Backend:     cfg.StorageBackend,
		Key:         cfg.StorageKey,
		DatabaseURL: cfg.DatabaseURL,
		RedisAddr:   cfg.RedisAddr,
		SQLitePath:  cfg.SQLitePath,
	})
	if err != nil {
		return err
	}
	defer backend.Close()
	log.Printf("storage backend: %s (key %q)", cfg.StorageBackend, cfg.StorageKey)

	m := metrics.New()
	repo := student.NewRepository(backend.Slot, student.WithRecorder(m))
	if cfg.StorageBackend == store.BackendMemory {
		seedMemory(ctx, repo, cfg.SeedFile)
	}

	dir, err := report.NewDir(cfg.ReportDir)
	if err != nil {
		return err
	}

	opts := []api.Option{api.WithMetrics(m.Handler())}
	if backend.DB != nil {
		opts = append(opts, api.WithHealthCheck("db", backend.DB))
	}

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
		// In-memory jobs are only visible to this process.
		worker := report.NewWorker(repo, dir, workerOptions(cfg, m)...)
		go func() {
			if err := worker.Run(ctx, q); err != nil {
				log.Printf("in-process report worker stopped: %v", err)
			}
		}()
	} else {
		redisClient := store.NewRedis(cfg.RedisAddr)
		defer redisClient.Close()
		q = queue.NewRedisQueue(redisClient.Client, "records:reports")
		opts = append(opts, api.WithHealthCheck("redis", redisClient))
	}
	opts = append(opts, api.WithReports(q, dir))

	h := api.New(repo, auth.NewGate(
		auth.Credential{Username: cfg.AdminUsername, Password: cfg.AdminPassword},
		auth.Credential{Username: cfg.StudentUsername, Password: cfg.StudentPassword},
	), api.Config{
		JWTIssuer:       cfg.JWTIssuer,
		JWTSigningKey:   cfg.JWTSigningKey,
		AccessTTL:       cfg.AccessTTL,
		RateLimitPerMin: cfg.RateLimitPerMin,
		CORSOrigins:     cfg.CORSOrigins,
	}, opts...)

	// Graceful shutdown
	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      h.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests 10 seconds to complete
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	log.Println("Server exited")
	return nil
}

func workerOptions(cfg config.App, m *metrics.Metrics) []report.WorkerOption {
	opts := []report.WorkerOption{report.WithCounter(m)}
	if cfg.CloudinaryEnabled() {
		opts = append(opts, report.WithUploader(cloudinary.New(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)))
		log.Println("Cloudinary configured:", cfg.CloudinaryCloudName)
	} else {
		log.Println("Cloudinary not configured, reports stay local")
	}
	return opts
}

// seedMemory preloads the in-memory store so a dev server starts with data.
func seedMemory(ctx context.Context, repo *student.Repository, path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	forms, err := student.LoadSeed(path)
	if err != nil {
		log.Printf("seed file ignored: %v", err)
		return
	}
	res, err := student.Seed(ctx, repo, forms)
	if err != nil {
		log.Printf("seeding stopped: %v", err)
	}
	log.Printf("seeded %d students from %s", res.Added, path)
}

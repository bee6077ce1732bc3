package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"studentrecords/internal/cloudinary"
	"studentrecords/internal/config"
	"studentrecords/internal/metrics"
	"studentrecords/internal/queue"
	"studentrecords/internal/report"
	"studentrecords/internal/store"
	"studentrecords/internal/student"
)

// Worker consumes report jobs from redis, renders PDFs and optionally uploads them.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	if cfg.QueueBackend == "memory" {
		log.Fatalf("QUEUE_BACKEND=memory runs the worker inside the api; set QUEUE_BACKEND=redis to run it separately")
	}
	if cfg.StorageBackend == store.BackendMemory {
		log.Println("WARNING: memory storage is private to this process, reports will be empty")
	}

	backend, err := store.Open(ctx, store.Options{
		Backend:     cfg.StorageBackend,
		Key:         cfg.StorageKey,
		DatabaseURL: cfg.DatabaseURL,
		RedisAddr:   cfg.RedisAddr,
		SQLitePath:  cfg.SQLitePath,
	})
	if err != nil {
		log.Fatalf("storage open failed: %v", err)
	}
	defer backend.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)
	defer redisClient.Close()
	if !redisClient.Healthy(ctx) {
		log.Printf("WARNING: redis not reachable at %s, will keep retrying", cfg.RedisAddr)
	}
	q := queue.NewRedisQueue(redisClient.Client, "records:reports")

	dir, err := report.NewDir(cfg.ReportDir)
	if err != nil {
		log.Fatalf("report dir: %v", err)
	}

	m := metrics.New()
	repo := student.NewRepository(backend.Slot, student.WithRecorder(m))

	opts := []report.WorkerOption{report.WithCounter(m)}
	if cfg.CloudinaryEnabled() {
		opts = append(opts, report.WithUploader(cloudinary.New(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)))
		log.Println("Cloudinary configured:", cfg.CloudinaryCloudName)
	}

	if err := report.NewWorker(repo, dir, opts...).Run(ctx, q); err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}
}

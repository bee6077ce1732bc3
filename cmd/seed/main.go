package main

import (
	"context"
	"flag"
	"log"

	"studentrecords/internal/config"
	"studentrecords/internal/store"
	"studentrecords/internal/student"
)

// Seed loads student forms from a YAML file into the configured storage.
func main() {
	cfg := config.Load()
	path := flag.String("file", cfg.SeedFile, "YAML file with a top-level students list")
	flag.Parse()

	ctx := context.Background()
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
	if cfg.StorageBackend == store.BackendMemory {
		log.Println("WARNING: seeding memory storage only validates the file")
	}

	forms, err := student.LoadSeed(*path)
	if err != nil {
		log.Fatalf("load seed: %v", err)
	}

	res, err := student.Seed(ctx, student.NewRepository(backend.Slot), forms)
	if err != nil {
		log.Fatalf("seed stopped after %d records: %v", res.Added, err)
	}
	log.Printf("seeded %d students from %s (%d already present)", res.Added, *path, res.Skipped)
}

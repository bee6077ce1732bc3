package store

import (
	"context"
	"fmt"
)

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Options selects and locates a storage backend.
type Options struct {
	Backend     string
	Key         string
	DatabaseURL string
	RedisAddr   string
	SQLitePath  string
}

// Backend is an opened slot together with the connections behind it.
// DB and Redis are nil when the backend does not use them.
type Backend struct {
	Slot  Slot
	DB    *DB
	Redis *Redis
}

// Open builds the slot named by opts.Backend.
func Open(ctx context.Context, opts Options) (*Backend, error) {
	switch opts.Backend {
	case "", BackendMemory:
		return &Backend{Slot: NewMemory()}, nil
	case BackendRedis:
		r := NewRedis(opts.RedisAddr)
		if !r.Healthy(ctx) {
			_ = r.Close()
			return nil, fmt.Errorf("redis not reachable at %s", opts.RedisAddr)
		}
		return &Backend{Slot: NewRedisSlot(r.Client, opts.Key), Redis: r}, nil
	case BackendPostgres:
		db, err := NewDB(opts.DatabaseURL)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("db not reachable: %w", err)
		}
		slot, err := NewPostgresSlot(ctx, db.Client, opts.Key)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		return &Backend{Slot: slot, DB: db}, nil
	case BackendSQLite:
		db, err := NewSQLite(opts.SQLitePath)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		slot, err := NewSQLiteSlot(ctx, db.Client, opts.Key)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		return &Backend{Slot: slot, DB: db}, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}

// Close releases any open connections.
func (b *Backend) Close() error {
	if err := b.DB.Close(); err != nil {
		return err
	}
	return b.Redis.Close()
}

package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("store: key not found")

// Backend is the key-value primitive the scroll engine runs on. It is
// assumed to be eventually consistent and to offer no multi-key
// transactions or compare-and-swap. MemoryStore, RedisStore, PebbleStore,
// SQLiteStore and PostgresStore implement it.
type Backend interface {
	// Connection management
	Close() error
	Ping(ctx context.Context) error

	// Get returns ErrNotFound for a missing key.
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	// List returns every key starting with prefix in ascending byte order.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Kind names a Backend implementation in configuration.
type Kind string

const (
	KindMemory   Kind = "memory"
	KindRedis    Kind = "redis"
	KindPebble   Kind = "pebble"
	KindSQLite   Kind = "sqlite"
	KindPostgres Kind = "postgres"
)

// Options selects and configures a backend for Open.
type Options struct {
	Kind        Kind
	RedisURL    string
	DatabaseURL string
	SQLitePath  string
	PebbleDir   string
}

// Open connects the backend named by opts.Kind.
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch opts.Kind {
	case KindMemory, "":
		return NewMemoryStore(), nil
	case KindRedis:
		return NewRedisStore(ctx, opts.RedisURL)
	case KindPebble:
		return NewPebbleStore(opts.PebbleDir)
	case KindSQLite:
		return NewSQLiteStore(ctx, opts.SQLitePath)
	case KindPostgres:
		return NewPostgresStore(ctx, opts.DatabaseURL)
	default:
		return nil, errors.New("store: unknown backend " + string(opts.Kind))
	}
}

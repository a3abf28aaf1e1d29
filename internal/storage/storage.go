// Package storage is the durable key-value store behind persisted carts.
package storage

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

var (
	ErrUnknownDriver = errors.New("unknown storage driver")
	ErrEmptyKey      = errors.New("empty storage key")
)

// Store holds one opaque value per key. Put overwrites.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

type Config struct {
	Driver string `koanf:"driver"`
	// Path is the directory for the file driver and the database file for sqlite.
	Path string `koanf:"path"`
	DSN  string `koanf:"dsn"`
}

func Open(ctx context.Context, cfg Config) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverMemory:
		return NewMemStore(), nil
	case DriverFile:
		path := cfg.Path
		if path == "" {
			path = "./data"
		}
		return NewFileStore(path)
	case DriverSQLite:
		path := cfg.Path
		if path == "" {
			path = "artful.db"
		}
		return OpenSQLite(ctx, path)
	case DriverPostgres:
		return OpenPostgres(ctx, cfg.DSN)
	default:
		return nil, errors.Wrapf(ErrUnknownDriver, "driver %q", cfg.Driver)
	}
}

func checkKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyKey
	}
	return nil
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}

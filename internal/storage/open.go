package storage

import (
	"context"
	"fmt"

	"github.com/marcelsud/book-catalog/book"
	"github.com/marcelsud/book-catalog/book/memory"
	"github.com/marcelsud/book-catalog/book/postgres"
	"github.com/marcelsud/book-catalog/book/redis"
	"github.com/marcelsud/book-catalog/book/sqlite"
	"github.com/marcelsud/book-catalog/config"
)

// Store is what the binaries need from a backend: the repository plus reset
type Store interface {
	book.Repository
	book.Truncater
}

// Open connects the backend named by cfg.StoreDriver and makes sure its schema exists
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return memory.NewRepository(), nil
	case config.DriverSQLite:
		repo, err := sqlite.NewRepository(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return repo, nil
	case config.DriverPostgres:
		repo, err := postgres.NewRepositoryWithPoolConfig(
			cfg.PostgresConnectionString(),
			cfg.GetPostgresMaxOpenConns(),
			cfg.GetPostgresMaxIdleConns(),
			cfg.GetPostgresConnMaxLifeMinutes(),
		)
		if err != nil {
			return nil, fmt.Errorf("opening postgres store: %w", err)
		}
		if err := repo.CreateTable(ctx); err != nil {
			repo.Close(ctx)
			return nil, fmt.Errorf("opening postgres store: %w", err)
		}
		return repo, nil
	case config.DriverRedis:
		repo, err := redis.NewRepository(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("opening redis store: %w", err)
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

package config

import (
	"context"
	"fmt"
	"log"
	"time"

	"bookcatalog/internal/book"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is a book.Repository that can be health-checked and released.
type Store interface {
	book.Repository
	Ping(ctx context.Context) error
	Close() error
}

// OpenStore connects to the store selected by cfg.StoreDriver.
func OpenStore(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.StoreDriver {
	case DriverMemory:
		log.Println("store driver=memory (data is lost on exit)")
		return memoryStore{book.NewMemoryRepo()}, nil

	case DriverSQLite:
		repo, err := book.NewSQLiteRepo(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Printf("store driver=sqlite path=%s", cfg.SQLitePath)
		return repo, nil

	default:
		pool, err := pgxpool.New(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("create db pool: %w", err)
		}
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := pool.Ping(pingCtx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ping database (%s): %w", RedactDSN(cfg.DatabaseDSN), err)
		}
		log.Printf("store driver=postgres dsn=%s", RedactDSN(cfg.DatabaseDSN))
		return postgresStore{PostgresRepo: book.NewPostgresRepo(pool, cfg.QueryTimeout), pool: pool}, nil
	}
}

type memoryStore struct {
	*book.MemoryRepo
}

func (memoryStore) Close() error { return nil }

type postgresStore struct {
	*book.PostgresRepo
	pool *pgxpool.Pool
}

func (s postgresStore) Close() error {
	s.pool.Close()
	return nil
}

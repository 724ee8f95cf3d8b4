package db

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/imgajeed76/datagrid/internal/util"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// sessionGUCs are applied to every new connection. Statements that slip
// past the query check still cannot write.
var sessionGUCs = []string{
	"SET SESSION CHARACTERISTICS AS TRANSACTION READ ONLY",
	"SET application_name = 'datagrid'",
}

// DB holds the database connection pool
type DB struct {
	pool *pgxpool.Pool
	mu   sync.RWMutex
}

// Connect establishes a lightweight read-only connection. A query source
// needs a single connection; the pool handles reconnects.
func Connect(ctx context.Context, url string) (*DB, error) {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, util.DatabaseConnectionError(url, fmt.Errorf("invalid connection URL: %w", err))
	}

	config.MaxConns = 1
	config.MinConns = 0
	config.MaxConnLifetime = time.Minute
	config.MaxConnIdleTime = 10 * time.Second

	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for _, guc := range sessionGUCs {
			if _, err := conn.Exec(ctx, guc); err != nil {
				return fmt.Errorf("failed to set %q on new connection: %w", guc, err)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, util.DatabaseConnectionError(url, fmt.Errorf("failed to connect: %w", err))
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, util.DatabaseConnectionError(url, fmt.Errorf("failed to ping database: %w", err))
	}

	return &DB{pool: pool}, nil
}

// Close closes the database connection
func (db *DB) Close() {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.pool != nil {
		db.pool.Close()
		db.pool = nil
	}
}

// Pool returns the underlying connection pool
func (db *DB) Pool() *pgxpool.Pool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.pool
}

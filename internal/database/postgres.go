package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

type DB struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, connString string) (*DB, error) {
	pgPool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &DB{
		Pool: pgPool,
	}, nil
}

// NewWithBackoff retries the initial connection with exponential backoff.
// Useful when the database container is still starting.
func NewWithBackoff(ctx context.Context, connString string, maxRetries int) (*DB, error) {
	var db *DB
	var err error

	for i := range maxRetries {
		if i > 0 {
			backoff := time.Duration(1<<uint(i)) * time.Second
			log.Info().Dur("backoff", backoff).Msg("Waiting before database retry")
			time.Sleep(backoff)
		}

		db, err = New(ctx, connString)
		if err == nil {
			if err = db.Ping(ctx); err == nil {
				return db, nil
			}
			db.Close()
		}

		log.Warn().Err(err).Int("attempt", i+1).Msg("Database connection failed")
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

func (db *DB) Ping(ctx context.Context) error {
	if err := db.Pool.Ping(ctx); err != nil {
		return err
	}

	return nil
}

func (db *DB) Close() {
	db.Pool.Close()
}

// EnsureSchema creates the pgvector extension and the chunks table if they
// do not exist. The embedding dimension is fixed at table creation time and
// must match the embedding model's output size.
func (db *DB) EnsureSchema(ctx context.Context, dim int) error {
	if dim <= 0 {
		return fmt.Errorf("invalid embedding dimension: %d", dim)
	}

	if _, err := db.Pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return fmt.Errorf("failed to create vector extension: %w", err)
	}

	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS chunks (
			id BIGSERIAL PRIMARY KEY,
			text TEXT NOT NULL CHECK (text <> ''),
			embedding vector(%d) NOT NULL
		)`, dim)

	if _, err := db.Pool.Exec(ctx, createTable); err != nil {
		return fmt.Errorf("failed to create chunks table: %w", err)
	}

	return nil
}

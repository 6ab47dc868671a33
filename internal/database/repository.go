package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pgvector/pgvector-go"
	"github.com/rs/zerolog/log"
)

var (
	ErrEmptyText         = errors.New("chunk text must not be empty")
	ErrDimensionMismatch = errors.New("embedding dimension does not match the store dimension")
)

// InsertChunk stores one text chunk with its embedding. The embedding length
// is checked against expectedDim before touching the database.
func (db *DB) InsertChunk(ctx context.Context, text string, embedding []float32, expectedDim int) (int64, error) {
	if strings.TrimSpace(text) == "" {
		return 0, ErrEmptyText
	}
	if len(embedding) != expectedDim {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(embedding), expectedDim)
	}

	query := `INSERT INTO chunks (text, embedding) VALUES ($1, $2) RETURNING id`

	var id int64
	vector := pgvector.NewVector(embedding)
	if err := db.Pool.QueryRow(ctx, query, text, vector).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert chunk: %w", err)
	}

	return id, nil
}

// TopKChunks runs the nearest-neighbor query in a single round trip.
// Rows come back ordered by ascending cosine distance, ties broken by
// ascending id. An empty table yields an empty slice, not an error.
func (db *DB) TopKChunks(ctx context.Context, queryEmbedding []float32, k int) ([]Chunk, error) {
	pgvectorEmbedding := pgvector.NewVector(queryEmbedding)

	query := `
	SELECT
	  id,
	  text,
	  embedding <=> $1 AS distance
	FROM chunks
	ORDER BY distance ASC, id ASC
	LIMIT $2`

	rows, err := db.Pool.Query(ctx, query, pgvectorEmbedding, k)
	if err != nil {
		return nil, fmt.Errorf("unable to query the database: %w", err)
	}

	defer rows.Close()

	var chunks []Chunk
	for rows.Next() {
		var chunk Chunk

		if err := rows.Scan(&chunk.ID, &chunk.Text, &chunk.Distance); err != nil {
			return nil, fmt.Errorf("failed to scan chunk row: %w", err)
		}

		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return chunks, nil
}

func (db *DB) CountChunks(ctx context.Context) (int64, error) {
	var count int64
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}

	return count, nil
}

func (db *DB) DeleteChunk(ctx context.Context, id int64) error {
	result, err := db.Pool.Exec(ctx, `DELETE FROM chunks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete chunk %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		log.Warn().Int64("chunk_id", id).Msg("Chunk not found")
	} else {
		log.Info().Int64("chunk_id", id).Msg("Chunk deleted")
	}

	return nil
}

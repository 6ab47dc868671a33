package ingestion

import (
	"context"
	"fmt"
	"strings"

	"github.com/pgvector/pgvector-go"
	"github.com/rs/zerolog/log"

	"github.com/allychat/rag-agent/internal/database"
	"github.com/allychat/rag-agent/internal/embedding"
)

type Pipeline struct {
	parser   *Parser
	chunker  *Chunker
	embedder embedding.Embedder
	db       *database.DB
	dim      int
}

func NewPipeline(
	parser *Parser,
	chunker *Chunker,
	embedder embedding.Embedder,
	db *database.DB,
	dim int,
) *Pipeline {
	return &Pipeline{
		parser:   parser,
		chunker:  chunker,
		embedder: embedder,
		db:       db,
		dim:      dim,
	}
}

// IngestTextDocument processes a text file and stores its chunks atomically.
func (p *Pipeline) IngestTextDocument(ctx context.Context, filePath string) error {
	log.Info().Str("file", filePath).Msg("Starting ingestion")

	doc, err := p.parser.ParseFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to parse file: %w", err)
	}
	log.Info().Str("doc_id", doc.ID).Str("title", doc.Title).Msg("Document parsed")

	chunks := p.chunker.ChunkText(doc.Content)
	if len(chunks) == 0 {
		return fmt.Errorf("document %s produced no chunks", doc.Title)
	}
	log.Info().Int("chunk_count", len(chunks)).Msg("Document chunked successfully")

	var chunkContent []string
	for _, chunk := range chunks {
		chunkContent = append(chunkContent, chunk.Content)
	}

	embeddings, err := p.embedder.GenerateBatchEmbeddings(ctx, chunkContent)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings: %w", err)
	}

	log.Info().Msg("Embeddings generated successfully")

	if err := p.storeChunks(ctx, chunks, embeddings); err != nil {
		return fmt.Errorf("failed to store chunks: %w", err)
	}

	log.Info().
		Str("doc_id", doc.ID).
		Int("chunks", len(chunks)).
		Msg("Ingestion complete")

	return nil
}

// storeChunks inserts all chunks in a single transaction. Every embedding is
// checked against the store dimension before anything is written.
func (p *Pipeline) storeChunks(ctx context.Context, chunks []Chunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("have %d chunks but %d embeddings", len(chunks), len(embeddings))
	}

	for i, emb := range embeddings {
		if len(emb) != p.dim {
			return fmt.Errorf("chunk %d: %w: got %d, want %d", i, database.ErrDimensionMismatch, len(emb), p.dim)
		}
		if strings.TrimSpace(chunks[i].Content) == "" {
			return fmt.Errorf("chunk %d: %w", i, database.ErrEmptyText)
		}
	}

	tx, err := p.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // Rollback if we don't commit

	query := `INSERT INTO chunks (text, embedding) VALUES ($1, $2)`

	for i, chunk := range chunks {
		vector := pgvector.NewVector(embeddings[i])

		if _, err := tx.Exec(ctx, query, chunk.Content, vector); err != nil {
			// Transaction will auto-rollback via defer
			return fmt.Errorf("failed to insert chunk %d: %w", i, err)
		}
	}
	log.Info().Int("chunks", len(chunks)).Msg("All chunks inserted in transaction")

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

package ingestion

import (
	"context"
	"errors"
	"testing"

	"github.com/allychat/rag-agent/internal/database"
)

type fixedEmbedder struct {
	dim int
	err error
}

func (f *fixedEmbedder) GenerateEmbeddings(ctx context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return make([]float32, f.dim), nil
}

func (f *fixedEmbedder) GenerateBatchEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = make([]float32, f.dim)
	}
	return out, nil
}

func TestIngestTextDocument_RejectsDimensionMismatch(t *testing.T) {
	path := writeTestFile(t, "doc.txt", "ROG Xbox Ally has a 7-inch display.")

	// Embedder produces 8-dim vectors against a 384-dim store; validation
	// must fail before any database work.
	pipeline := NewPipeline(NewParser(), NewChunker(500, 100), &fixedEmbedder{dim: 8}, &database.DB{}, 384)

	err := pipeline.IngestTextDocument(context.Background(), path)
	if !errors.Is(err, database.ErrDimensionMismatch) {
		t.Fatalf("Expected ErrDimensionMismatch, got: %v", err)
	}
}

func TestIngestTextDocument_EmbedderFailure(t *testing.T) {
	path := writeTestFile(t, "doc.txt", "some content")

	pipeline := NewPipeline(NewParser(), NewChunker(500, 100), &fixedEmbedder{err: errors.New("model unavailable")}, &database.DB{}, 384)

	if err := pipeline.IngestTextDocument(context.Background(), path); err == nil {
		t.Fatal("Expected an error when embedding fails")
	}
}

func TestIngestTextDocument_UnparsableFile(t *testing.T) {
	pipeline := NewPipeline(NewParser(), NewChunker(500, 100), &fixedEmbedder{dim: 384}, &database.DB{}, 384)

	if err := pipeline.IngestTextDocument(context.Background(), "/nonexistent/doc.txt"); err == nil {
		t.Fatal("Expected an error for a missing file")
	}
}

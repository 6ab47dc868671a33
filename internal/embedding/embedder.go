package embedding

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmptyInput is returned before the model is called when the input text
// is empty or whitespace only.
var ErrEmptyInput = errors.New("embedding input must not be empty")

// Embedder maps text to a fixed-length vector. Implementations are built
// once at startup and are safe for concurrent use.
type Embedder interface {
	GenerateEmbeddings(ctx context.Context, text string) ([]float32, error)
	GenerateBatchEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

func validateDimension(embedding []float32, want int) error {
	if len(embedding) != want {
		return fmt.Errorf("model returned a %d-dimensional embedding, want %d", len(embedding), want)
	}
	return nil
}

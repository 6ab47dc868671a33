package retrieval

import (
	"context"
	"errors"
	"fmt"

	"github.com/allychat/rag-agent/internal/database"
	"github.com/allychat/rag-agent/internal/embedding"
)

var ErrInvalidTopK = errors.New("top-k must be greater than zero")

// Store is the slice of the database layer the retriever needs.
// *database.DB satisfies it; tests pass a mock.
type Store interface {
	TopKChunks(ctx context.Context, queryEmbedding []float32, k int) ([]database.Chunk, error)
}

// Result is one retrieved chunk with its similarity score.
type Result struct {
	ChunkID int64   `json:"chunk_id"`
	Text    string  `json:"text"`
	Score   float64 `json:"score"`
	Rank    int     `json:"rank"`
}

// Retriever embeds a query and finds the closest stored chunks. The store's
// SQL ordering (distance ascending, id ascending) already guarantees the
// result order, so no client-side re-ranking happens here.
type Retriever struct {
	store    Store
	embedder embedding.Embedder
}

func NewRetriever(store Store, embedder embedding.Embedder) *Retriever {
	return &Retriever{
		store:    store,
		embedder: embedder,
	}
}

// Retrieve embeds the query text and delegates to RetrieveVector.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]Result, error) {
	if k <= 0 {
		return nil, ErrInvalidTopK
	}

	queryEmbedding, err := r.embedder.GenerateEmbeddings(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("unable to generate embeddings: %w", err)
	}

	return r.RetrieveVector(ctx, queryEmbedding, k)
}

// RetrieveVector runs the top-k similarity query for a pre-computed query
// vector in a single database round trip. An empty store yields an empty
// result, not an error.
func (r *Retriever) RetrieveVector(ctx context.Context, queryEmbedding []float32, k int) ([]Result, error) {
	if k <= 0 {
		return nil, ErrInvalidTopK
	}

	chunks, err := r.store.TopKChunks(ctx, queryEmbedding, k)
	if err != nil {
		return nil, fmt.Errorf("unable to run similarity search on the DB: %w", err)
	}

	results := make([]Result, 0, len(chunks))
	for i, chunk := range chunks {
		results = append(results, Result{
			ChunkID: chunk.ID,
			Text:    chunk.Text,
			Score:   DistanceToScore(chunk.Distance),
			Rank:    i + 1, // Position of the chunk in the result
		})
	}

	return results, nil
}

// Embed exposes query embedding so callers can reuse one vector across
// retrieval and caching.
func (r *Retriever) Embed(ctx context.Context, query string) ([]float32, error) {
	return r.embedder.GenerateEmbeddings(ctx, query)
}

// DistanceToScore converts a cosine distance to a similarity score.
func DistanceToScore(distance float64) float64 {
	// Cosine distance range: 0 (identical) to 2 (opposite)
	// Convert to similarity score: 1 (best) to 0 (worst)
	score := 1.0 - distance

	// Clamp to [0, 1] range to avoid negative scores
	if score < 0.0 {
		return 0.0
	}
	if score > 1.0 {
		return 1.0
	}

	return score
}

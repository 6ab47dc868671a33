package embedding

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIEmbedder speaks the OpenAI embeddings protocol. With a custom base
// URL it also fronts self-hosted sentence-transformer servers that expose
// the same API (the reference deployment's all-MiniLM-L6-v2 is 384-d).
type OpenAIEmbedder struct {
	client  openai.Client
	modelID string
	dim     int
}

func NewOpenAIEmbedder(apiKey string, modelID string, baseURL string, dim int) (*OpenAIEmbedder, error) {
	if modelID == "" {
		return nil, fmt.Errorf("embedding model ID is required")
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &OpenAIEmbedder{
		client:  openai.NewClient(opts...),
		modelID: modelID,
		dim:     dim,
	}, nil
}

func (e *OpenAIEmbedder) GenerateEmbeddings(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	embeddings, err := e.embed(ctx, openai.EmbeddingNewParamsInputUnion{
		OfString: openai.String(text),
	}, 1)
	if err != nil {
		return nil, err
	}

	return embeddings[0], nil
}

func (e *OpenAIEmbedder) GenerateBatchEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyInput
	}
	for _, text := range texts {
		if strings.TrimSpace(text) == "" {
			return nil, ErrEmptyInput
		}
	}

	return e.embed(ctx, openai.EmbeddingNewParamsInputUnion{
		OfArrayOfStrings: texts,
	}, len(texts))
}

func (e *OpenAIEmbedder) embed(ctx context.Context, input openai.EmbeddingNewParamsInputUnion, want int) ([][]float32, error) {
	response, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input:      input,
		Model:      openai.EmbeddingModel(e.modelID),
		Dimensions: openai.Int(int64(e.dim)),
	})
	if err != nil {
		return nil, fmt.Errorf("unable to invoke embedding model: %w", err)
	}

	if len(response.Data) != want {
		return nil, fmt.Errorf("embedding response has %d entries, want %d", len(response.Data), want)
	}

	embeddings := make([][]float32, 0, want)
	for _, data := range response.Data {
		embedding := make([]float32, len(data.Embedding))
		for i, v := range data.Embedding {
			embedding[i] = float32(v)
		}

		if err := validateDimension(embedding, e.dim); err != nil {
			return nil, err
		}
		embeddings = append(embeddings, embedding)
	}

	return embeddings, nil
}

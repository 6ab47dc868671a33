package embedding

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

// Titan embeddings API request format (what Bedrock expects)
type titanEmbedRequest struct {
	InputText  string `json:"inputText"`
	Dimensions int    `json:"dimensions,omitempty"`
	Normalize  bool   `json:"normalize"`
}

// Titan embeddings API response format (what Bedrock returns)
type titanEmbedResponse struct {
	Embedding           []float32 `json:"embedding"`
	InputTextTokenCount int       `json:"inputTextTokenCount"`
}

type BedrockEmbedder struct {
	client  *bedrockruntime.Client
	modelID string
	dim     int
}

func NewBedrockEmbedder(client *bedrockruntime.Client, modelID string, dim int) *BedrockEmbedder {
	return &BedrockEmbedder{
		client:  client,
		modelID: modelID,
		dim:     dim,
	}
}

func (e *BedrockEmbedder) GenerateEmbeddings(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	payload := titanEmbedRequest{
		InputText:  text,
		Dimensions: e.dim,
		Normalize:  true,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embed request: %w", err)
	}

	output, err := e.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     &e.modelID,
		Body:        body,
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke embedding model: %w", err)
	}

	var response titanEmbedResponse
	if err := json.Unmarshal(output.Body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal embedding response: %w", err)
	}

	if err := validateDimension(response.Embedding, e.dim); err != nil {
		return nil, err
	}

	return response.Embedding, nil
}

// GenerateBatchEmbeddings embeds each text with its own model call; the
// Titan API takes a single inputText per request.
func (e *BedrockEmbedder) GenerateBatchEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, 0, len(texts))

	for i, text := range texts {
		embedding, err := e.GenerateEmbeddings(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("failed to embed text %d: %w", i, err)
		}
		embeddings = append(embeddings, embedding)
	}

	return embeddings, nil
}

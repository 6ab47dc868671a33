package groq

import (
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Client talks to the Groq chat-completion API through its OpenAI-compatible
// endpoint. Any server speaking the same protocol works via baseURL.
type Client struct {
	client  openai.Client
	modelID string
}

func NewClient(apiKey string, modelID string, baseURL string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Groq API key is required")
	}
	if modelID == "" {
		return nil, fmt.Errorf("Groq model ID is required")
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &Client{
		client:  openai.NewClient(opts...),
		modelID: modelID,
	}, nil
}

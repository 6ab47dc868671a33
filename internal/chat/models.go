package chat

import (
	"encoding/json"
	"fmt"

	"github.com/allychat/rag-agent/internal/middleware"
)

type ChatRequest struct {
	Query       string  `json:"query" description:"The user question"`
	TopK        int     `json:"top_k,omitempty" description:"Number of chunks to retrieve (default: configured top-k)"`
	MaxTokens   int     `json:"max_tokens,omitempty" description:"Maximum tokens to generate (default: 1000)"`
	Temperature float64 `json:"temperature,omitempty" description:"Temperature for generation (0.0-1.0, default: 0.7)"`
}

// Source is one retrieved chunk shown back to the caller for transparency.
type Source struct {
	Text  string  `json:"text" description:"Chunk text"`
	Score float64 `json:"score" description:"Similarity score (0-1)"`
}

type ChatResponse struct {
	Answer  string   `json:"answer" description:"Generated answer"`
	Sources []Source `json:"sources" description:"Retrieved chunks with similarity scores"`
	TopK    int      `json:"top_k" description:"Effective top-k used for retrieval"`
}

type HealthResponse struct {
	Status  string `json:"status" description:"Service status"`
	Version string `json:"version" description:"API version"`
}

func (r *ChatRequest) Validate() error {
	if r.Query == "" {
		return middleware.ErrEmptyQuery
	}

	if r.TopK < 0 || r.TopK > 50 {
		return middleware.ErrInvalidTopK
	}

	if r.MaxTokens < 0 || r.MaxTokens > 100000 {
		return middleware.ErrInvalidMaxTokens
	}

	if r.Temperature < 0.0 || r.Temperature > 1.0 {
		return middleware.ErrInvalidTemperature
	}
	return nil
}

func (r *ChatRequest) SetDefaults(defaultTopK int) {
	if r.TopK == 0 {
		r.TopK = defaultTopK
	}

	if r.MaxTokens == 0 {
		r.MaxTokens = 1000
	}

	if r.Temperature == 0 {
		r.Temperature = 0.7
	}
}

type SSEEvent struct {
	Event string      `json:"-"`
	Data  interface{} `json:"-"`
}

// SSE event data structures
type StreamStartEvent struct {
	Model   string   `json:"model"`
	Sources []Source `json:"sources"`
	TopK    int      `json:"top_k"`
}

type StreamChunkEvent struct {
	Text string `json:"text"`
}

type StreamDoneEvent struct {
	StopReason string `json:"stop_reason"`
}

type StreamErrorEvent struct {
	Error string `json:"error"`
}

func (e SSEEvent) Format() (string, error) {
	jsonData, err := json.Marshal(e.Data)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("event: %s\ndata: %s\n\n", e.Event, string(jsonData)), nil
}

package chat

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/emicklei/go-restful/v3"

	"github.com/allychat/rag-agent/internal/database"
	"github.com/allychat/rag-agent/internal/llm"
)

func newTestContainer(service *Service) *restful.Container {
	container := restful.NewContainer()
	RegisterRoutes(container, NewHandler(service))
	return container
}

func postChat(t *testing.T, container *restful.Container, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", restful.MIME_JSON)

	recorder := httptest.NewRecorder()
	container.ServeHTTP(recorder, req)
	return recorder
}

func TestChatEndpoint_Success(t *testing.T) {
	store := &mockStore{
		chunks: []database.Chunk{
			{ID: 1, Text: "ROG Xbox Ally has a 7-inch display", Distance: 0.08},
		},
	}
	llmClient := &mockLLMClient{
		response: &llm.LLMResponse{Content: "The screen size is 7 inches."},
	}
	container := newTestContainer(newTestService(store, &mockEmbedder{vector: []float32{0.1}}, llmClient))

	recorder := postChat(t, container, `{"query": "What is the screen size?"}`)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var response ChatResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if !strings.Contains(response.Answer, "7 inches") {
		t.Errorf("Expected answer to reference 7 inches, got: %s", response.Answer)
	}
	if len(response.Sources) != 1 {
		t.Fatalf("Expected 1 source, got %d", len(response.Sources))
	}
	if response.Sources[0].Text != "ROG Xbox Ally has a 7-inch display" {
		t.Errorf("Unexpected source text: %s", response.Sources[0].Text)
	}
	if response.TopK != 5 {
		t.Errorf("Expected default top_k 5, got %d", response.TopK)
	}
}

func TestChatEndpoint_EmptyQuery(t *testing.T) {
	embedder := &mockEmbedder{vector: []float32{0.1}}
	llmClient := &mockLLMClient{response: &llm.LLMResponse{Content: "unused"}}
	container := newTestContainer(newTestService(&mockStore{}, embedder, llmClient))

	recorder := postChat(t, container, `{"query": ""}`)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", recorder.Code)
	}
	if embedder.calls != 0 {
		t.Error("Embedder was called for a rejected request")
	}
	if llmClient.calls != 0 {
		t.Error("Model was invoked for a rejected request")
	}
}

func TestChatEndpoint_InvalidParameters(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"negative top_k", `{"query": "q", "top_k": -1}`},
		{"excessive top_k", `{"query": "q", "top_k": 51}`},
		{"negative max_tokens", `{"query": "q", "max_tokens": -5}`},
		{"temperature above range", `{"query": "q", "temperature": 1.5}`},
		{"malformed body", `{"query": `},
	}

	container := newTestContainer(newTestService(&mockStore{}, &mockEmbedder{vector: []float32{0.1}}, &mockLLMClient{}))

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			recorder := postChat(t, container, c.body)
			if recorder.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", recorder.Code)
			}
		})
	}
}

func TestChatEndpoint_GenerationFailureReturns502WithSources(t *testing.T) {
	store := &mockStore{
		chunks: []database.Chunk{
			{ID: 1, Text: "ROG Xbox Ally has a 7-inch display", Distance: 0.08},
		},
	}
	llmClient := &mockLLMClient{err: errors.New("model overloaded")}
	container := newTestContainer(newTestService(store, &mockEmbedder{vector: []float32{0.1}}, llmClient))

	recorder := postChat(t, container, `{"query": "What is the screen size?"}`)

	if recorder.Code != http.StatusBadGateway {
		t.Fatalf("Expected status 502, got %d", recorder.Code)
	}

	var response ChatResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if response.Answer == "" {
		t.Error("Expected an explanatory answer in the degraded response")
	}
	if len(response.Sources) != 1 {
		t.Errorf("Expected the retrieved sources in the degraded response, got %d", len(response.Sources))
	}
	if response.TopK != 5 {
		t.Errorf("Expected top_k 5 in the degraded response, got %d", response.TopK)
	}
}

func TestChatEndpoint_RetrievalFailureReturns500(t *testing.T) {
	store := &mockStore{err: errors.New("connection refused")}
	container := newTestContainer(newTestService(store, &mockEmbedder{vector: []float32{0.1}}, &mockLLMClient{}))

	recorder := postChat(t, container, `{"query": "q"}`)

	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", recorder.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	container := newTestContainer(newTestService(&mockStore{}, &mockEmbedder{vector: []float32{0.1}}, &mockLLMClient{}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	recorder := httptest.NewRecorder()
	container.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", recorder.Code)
	}

	var response HealthResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response.Status != "ok" {
		t.Errorf("Expected status ok, got %s", response.Status)
	}
}

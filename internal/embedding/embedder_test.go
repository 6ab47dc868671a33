package embedding

import (
	"context"
	"errors"
	"testing"
)

func TestBedrockEmbedder_EmptyInputRejectedBeforeInvocation(t *testing.T) {
	// nil client proves the input check runs before any model call
	embedder := NewBedrockEmbedder(nil, "amazon.titan-embed-text-v2:0", 384)

	for _, input := range []string{"", "   ", "\n\t"} {
		_, err := embedder.GenerateEmbeddings(context.Background(), input)
		if !errors.Is(err, ErrEmptyInput) {
			t.Errorf("Input %q: expected ErrEmptyInput, got %v", input, err)
		}
	}
}

func TestBedrockEmbedder_BatchStopsOnEmptyInput(t *testing.T) {
	embedder := NewBedrockEmbedder(nil, "amazon.titan-embed-text-v2:0", 384)

	_, err := embedder.GenerateBatchEmbeddings(context.Background(), []string{""})
	if !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Expected ErrEmptyInput, got %v", err)
	}
}

func TestOpenAIEmbedder_EmptyInputRejectedBeforeInvocation(t *testing.T) {
	embedder, err := NewOpenAIEmbedder("test-key", "all-MiniLM-L6-v2", "http://localhost:9999/v1", 384)
	if err != nil {
		t.Fatalf("NewOpenAIEmbedder failed: %v", err)
	}

	if _, err := embedder.GenerateEmbeddings(context.Background(), "   "); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Expected ErrEmptyInput, got %v", err)
	}
	if _, err := embedder.GenerateBatchEmbeddings(context.Background(), nil); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Expected ErrEmptyInput for empty batch, got %v", err)
	}
	if _, err := embedder.GenerateBatchEmbeddings(context.Background(), []string{"ok", " "}); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Expected ErrEmptyInput for blank batch entry, got %v", err)
	}
}

func TestNewOpenAIEmbedder_RequiresModelID(t *testing.T) {
	if _, err := NewOpenAIEmbedder("key", "", "", 384); err == nil {
		t.Error("Expected an error for a missing model ID")
	}
}

func TestValidateDimension(t *testing.T) {
	if err := validateDimension(make([]float32, 384), 384); err != nil {
		t.Errorf("Expected matching dimension to pass, got %v", err)
	}
	if err := validateDimension(make([]float32, 768), 384); err == nil {
		t.Error("Expected mismatched dimension to fail")
	}
}

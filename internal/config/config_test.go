package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Port)
	}
	if cfg.EmbeddingDim != 384 {
		t.Errorf("Expected default embedding dim 384, got %d", cfg.EmbeddingDim)
	}
	if cfg.TopK != 5 {
		t.Errorf("Expected default top-k 5, got %d", cfg.TopK)
	}
	if cfg.ContextCharBudget != 6000 {
		t.Errorf("Expected default context budget 6000, got %d", cfg.ContextCharBudget)
	}
	if cfg.EmbedTimeout != 5*time.Second || cfg.RetrieveTimeout != 5*time.Second {
		t.Errorf("Unexpected embed/retrieve timeouts: %v / %v", cfg.EmbedTimeout, cfg.RetrieveTimeout)
	}
	if cfg.GenerateTimeout != 30*time.Second {
		t.Errorf("Expected default generate timeout 30s, got %v", cfg.GenerateTimeout)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("CHAT_API_PORT", "9090")
	t.Setenv("RETRIEVAL_TOP_K", "8")
	t.Setenv("GENERATE_TIMEOUT", "45s")
	t.Setenv("LLM_PROVIDER", "bedrock")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Port)
	}
	if cfg.TopK != 8 {
		t.Errorf("Expected top-k 8, got %d", cfg.TopK)
	}
	if cfg.GenerateTimeout != 45*time.Second {
		t.Errorf("Expected generate timeout 45s, got %v", cfg.GenerateTimeout)
	}
	if cfg.LLMProvider != "bedrock" {
		t.Errorf("Expected provider bedrock, got %s", cfg.LLMProvider)
	}
}

func TestGetEnvInt_InvalidFallsBack(t *testing.T) {
	t.Setenv("EMBEDDING_DIM", "not-a-number")

	cfg := Load()
	if cfg.EmbeddingDim != 384 {
		t.Errorf("Expected fallback to 384, got %d", cfg.EmbeddingDim)
	}
}

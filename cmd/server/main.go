package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
	"github.com/go-openapi/spec"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/allychat/rag-agent/internal/cache"
	"github.com/allychat/rag-agent/internal/chat"
	"github.com/allychat/rag-agent/internal/config"
	"github.com/allychat/rag-agent/internal/database"
	"github.com/allychat/rag-agent/internal/embedding"
	"github.com/allychat/rag-agent/internal/llm"
	"github.com/allychat/rag-agent/internal/llm/bedrock"
	"github.com/allychat/rag-agent/internal/llm/groq"
	"github.com/allychat/rag-agent/internal/middleware"
	"github.com/allychat/rag-agent/internal/prompt"
	"github.com/allychat/rag-agent/internal/retrieval"
	"github.com/allychat/rag-agent/internal/search"
)

func enrichSwaggerObject(swo *spec.Swagger) {
	swo.Info = &spec.Info{
		InfoProps: spec.InfoProps{
			Title:       "Ally Chatbot API",
			Description: "RAG chatbot for the ROG Xbox Ally knowledge base",
			Version:     "1.0.0",
		},
	}
	swo.Tags = []spec.Tag{
		{TagProps: spec.TagProps{Name: "health", Description: "Health checks"}},
		{TagProps: spec.TagProps{Name: "chat", Description: "Chat operations"}},
	}
}

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	log.Info().Msg("Starting Ally Chatbot API Server")

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	cfg := config.Load()
	ctx := context.Background()

	// Connect to Postgres with retries
	db, err := database.NewWithBackoff(ctx, cfg.DatabaseURL, 5)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	log.Info().Msg("Database connected")

	llmClient, modelID, err := buildLLMClient(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Unable to initialize LLM client")
	}

	log.Info().
		Str("provider", cfg.LLMProvider).
		Str("model", modelID).
		Msg("LLM client initialized")

	embedder, err := buildEmbedder(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Unable to initialize embedder")
	}

	log.Info().
		Str("provider", cfg.EmbeddingProvider).
		Int("dimension", cfg.EmbeddingDim).
		Msg("Embedder initialized")

	// Optional Redis search cache
	var searchCache cache.SearchCache = cache.NoopSearchCache{}
	if cfg.RedisAddr != "" {
		redisClient, err := cache.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, 5)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		searchCache = cache.NewRedisSearchCache(redisClient, "search_cache:", cfg.RedisTTL)
	}

	// Wire components
	retriever := retrieval.NewRetriever(db, embedder)
	assembler := prompt.NewAssembler(cfg.ContextCharBudget)
	service := chat.NewService(
		retriever,
		assembler,
		llmClient,
		searchCache,
		modelID,
		cfg.TopK,
		chat.Timeouts{
			Embed:    cfg.EmbedTimeout,
			Retrieve: cfg.RetrieveTimeout,
			Generate: cfg.GenerateTimeout,
		},
	)
	handler := chat.NewHandler(service)
	searchHandler := search.NewSearchHandler(retriever)

	container := restful.NewContainer()

	// Add filters
	container.Filter(middleware.Logger)
	container.Filter(middleware.RecoverPanic)

	// register API
	chat.RegisterRoutes(container, handler)
	search.RegisterRoutes(container, searchHandler)

	openAPIConfig := restfulspec.Config{
		WebServices:                   container.RegisteredWebServices(),
		APIPath:                       "/api/v1/openapi.json",
		PostBuildSwaggerObjectHandler: enrichSwaggerObject,
	}

	container.Add(restfulspec.NewOpenAPIService(openAPIConfig))

	// Setup CORS
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Info().Str("address", addr).Msg("Starting server")

	server := http.Server{
		Addr:         addr,
		Handler:      corsHandler.Handler(container),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.GenerateTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if err := server.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("Server failed to start")
	}
}

func buildLLMClient(ctx context.Context, cfg *config.Config) (llm.LLMClient, string, error) {
	switch cfg.LLMProvider {
	case "bedrock":
		client, err := bedrock.NewClient(ctx, cfg.AWSRegion, cfg.ClaudeModelID)
		return client, cfg.ClaudeModelID, err
	case "groq":
		client, err := groq.NewClient(cfg.GroqAPIKey, cfg.GroqModelID, cfg.GroqBaseURL)
		return client, cfg.GroqModelID, err
	default:
		return nil, "", fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}
}

func buildEmbedder(ctx context.Context, cfg *config.Config) (embedding.Embedder, error) {
	switch cfg.EmbeddingProvider {
	case "bedrock":
		client, err := bedrock.NewClient(ctx, cfg.AWSRegion, cfg.TitanEmbedModelID)
		if err != nil {
			return nil, err
		}
		return embedding.NewBedrockEmbedder(client.Runtime(), cfg.TitanEmbedModelID, cfg.EmbeddingDim), nil
	case "openai":
		return embedding.NewOpenAIEmbedder(cfg.OpenAIEmbedKey, cfg.OpenAIEmbedModelID, cfg.OpenAIEmbedBaseURL, cfg.EmbeddingDim)
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.EmbeddingProvider)
	}
}

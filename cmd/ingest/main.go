package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/allychat/rag-agent/internal/config"
	"github.com/allychat/rag-agent/internal/database"
	"github.com/allychat/rag-agent/internal/embedding"
	"github.com/allychat/rag-agent/internal/ingestion"
	"github.com/allychat/rag-agent/internal/llm/bedrock"
)

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	insertDocCommand := flag.Bool("insert-doc", false, "Insert document command")
	filePath := flag.String("filePath", "resources/input.txt", "Relative path to the document")
	chunkSize := flag.Int("chunkSize", 500, "Chunk size")
	chunkOverlap := flag.Int("chunkOverlap", 100, "Chunk overlap")

	deleteChunkCommand := flag.Bool("delete-chunk", false, "Delete existing chunk command")
	chunkID := flag.Int64("chunk-id", 0, "Chunk id which needs to be deleted")

	countCommand := flag.Bool("count", false, "Count stored chunks command")
	ensureSchemaCommand := flag.Bool("ensure-schema", false, "Create the vector extension and chunks table")

	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("Unable to load env variables")
	}

	cfg := config.Load()
	ctx := context.Background()

	db, err := database.NewWithBackoff(ctx, cfg.DatabaseURL, 3)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
		return
	}

	defer db.Close()

	log.Info().Msg("Database connected")

	// Input commands parsing
	switch {
	case *ensureSchemaCommand:
		if err := db.EnsureSchema(ctx, cfg.EmbeddingDim); err != nil {
			log.Fatal().Err(err).Msg("Failed to ensure schema")
		}
		log.Info().Int("dimension", cfg.EmbeddingDim).Msg("Schema ready")

	case *deleteChunkCommand:
		if err := db.DeleteChunk(ctx, *chunkID); err != nil {
			log.Error().Err(err).Msg("Failed to delete chunk")
		}

	case *countCommand:
		count, err := db.CountChunks(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Unable to count chunks")
		}
		log.Info().Int64("chunks", count).Msg("Store size")

	case *insertDocCommand:
		embedder, err := buildEmbedder(ctx, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Unable to create embedder")
		}

		parser := ingestion.NewParser()
		chunker := ingestion.NewChunker(*chunkSize, *chunkOverlap)
		pipeline := ingestion.NewPipeline(parser, chunker, embedder, db, cfg.EmbeddingDim)

		if err := pipeline.IngestTextDocument(ctx, *filePath); err != nil {
			log.Fatal().Err(err).Msg("Ingestion failed")
		}
		log.Info().Msg("Ingestion successful!")

	default:
		log.Fatal().Msg("Unsupported command")
	}
}

func buildEmbedder(ctx context.Context, cfg *config.Config) (embedding.Embedder, error) {
	if cfg.EmbeddingProvider == "bedrock" {
		client, err := bedrock.NewClient(ctx, cfg.AWSRegion, cfg.TitanEmbedModelID)
		if err != nil {
			return nil, err
		}
		return embedding.NewBedrockEmbedder(client.Runtime(), cfg.TitanEmbedModelID, cfg.EmbeddingDim), nil
	}

	return embedding.NewOpenAIEmbedder(cfg.OpenAIEmbedKey, cfg.OpenAIEmbedModelID, cfg.OpenAIEmbedBaseURL, cfg.EmbeddingDim)
}

package chat

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/allychat/rag-agent/internal/cache"
	"github.com/allychat/rag-agent/internal/llm"
	"github.com/allychat/rag-agent/internal/prompt"
	"github.com/allychat/rag-agent/internal/retrieval"
)

// Service drives one request through the pipeline:
// embed -> retrieve -> assemble -> generate.
type Service struct {
	retriever   *retrieval.Retriever
	assembler   *prompt.Assembler
	llmClient   llm.LLMClient
	searchCache cache.SearchCache
	modelID     string
	defaultTopK int

	embedTimeout    time.Duration
	retrieveTimeout time.Duration
	generateTimeout time.Duration
}

type Timeouts struct {
	Embed    time.Duration
	Retrieve time.Duration
	Generate time.Duration
}

func NewService(
	retriever *retrieval.Retriever,
	assembler *prompt.Assembler,
	llmClient llm.LLMClient,
	searchCache cache.SearchCache,
	modelID string,
	defaultTopK int,
	timeouts Timeouts,
) *Service {
	if searchCache == nil {
		searchCache = cache.NoopSearchCache{}
	}

	return &Service{
		retriever:       retriever,
		assembler:       assembler,
		llmClient:       llmClient,
		searchCache:     searchCache,
		modelID:         modelID,
		defaultTopK:     defaultTopK,
		embedTimeout:    timeouts.Embed,
		retrieveTimeout: timeouts.Retrieve,
		generateTimeout: timeouts.Generate,
	}
}

func (s *Service) DefaultTopK() int {
	return s.defaultTopK
}

// Ask answers one question. On a generation failure the returned response
// still carries the retrieved sources so the caller keeps partial value;
// the accompanying *StageError tells the handler which stage failed.
func (s *Service) Ask(ctx context.Context, chatRequest ChatRequest) (ChatResponse, error) {
	results, err := s.RetrieveSources(ctx, chatRequest)
	if err != nil {
		return ChatResponse{}, err
	}

	promptText := s.assembler.Assemble(chatRequest.Query, results)

	genCtx, cancel := s.stageContext(ctx, s.generateTimeout)
	defer cancel()

	response, err := s.llmClient.InvokeModel(genCtx, llm.LLMRequest{
		Prompt:      promptText,
		MaxTokens:   chatRequest.MaxTokens,
		Temperature: chatRequest.Temperature,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to generate answer")
		return ChatResponse{
			Sources: toSources(results),
			TopK:    chatRequest.TopK,
		}, &StageError{Stage: StageGenerate, Err: err}
	}

	return ChatResponse{
		Answer:  response.Content,
		Sources: toSources(results),
		TopK:    chatRequest.TopK,
	}, nil
}

// CanStream reports whether the configured provider supports streaming.
func (s *Service) CanStream() bool {
	_, ok := s.llmClient.(llm.StreamingClient)
	return ok
}

// RetrieveSources embeds the query and runs the top-k search, consulting the
// cache first. The query is embedded exactly once per cache miss.
func (s *Service) RetrieveSources(ctx context.Context, chatRequest ChatRequest) ([]retrieval.Result, error) {
	cacheKey := fmt.Sprintf("%d:%s", chatRequest.TopK, chatRequest.Query)

	if cached, ok := s.searchCache.Get(ctx, cacheKey); ok {
		log.Debug().Str("query", chatRequest.Query).Msg("Search cache hit")
		return cached, nil
	}

	embedCtx, cancelEmbed := s.stageContext(ctx, s.embedTimeout)
	defer cancelEmbed()

	queryEmbedding, err := s.retriever.Embed(embedCtx, chatRequest.Query)
	if err != nil {
		log.Error().Err(err).Msg("Failed to embed query")
		return nil, &StageError{Stage: StageEmbed, Err: err}
	}

	retrieveCtx, cancelRetrieve := s.stageContext(ctx, s.retrieveTimeout)
	defer cancelRetrieve()

	results, err := s.retriever.RetrieveVector(retrieveCtx, queryEmbedding, chatRequest.TopK)
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve chunks")
		return nil, &StageError{Stage: StageRetrieve, Err: err}
	}

	s.searchCache.Set(ctx, cacheKey, results)

	return results, nil
}

// StreamAnswer generates the answer over SSE for already-retrieved sources.
// Sources go out in the start event, then the answer streams in chunk events.
// The caller must have checked CanStream and sent the SSE headers.
func (s *Service) StreamAnswer(ctx context.Context, chatRequest ChatRequest, results []retrieval.Result, flusher http.Flusher, writer io.Writer) error {
	streamer, ok := s.llmClient.(llm.StreamingClient)
	if !ok {
		return fmt.Errorf("configured LLM provider does not support streaming")
	}

	promptText := s.assembler.Assemble(chatRequest.Query, results)

	startEvent := SSEEvent{
		Event: "start",
		Data: StreamStartEvent{
			Model:   s.modelID,
			Sources: toSources(results),
			TopK:    chatRequest.TopK,
		},
	}
	if formatEvent, err := startEvent.Format(); err == nil {
		fmt.Fprint(writer, formatEvent)
		flusher.Flush()
	}

	genCtx, cancel := s.stageContext(ctx, s.generateTimeout)
	defer cancel()

	response, err := streamer.InvokeModelStream(genCtx, llm.LLMRequest{
		Prompt:      promptText,
		MaxTokens:   chatRequest.MaxTokens,
		Temperature: chatRequest.Temperature,
	}, func(chunk string) error {
		chunkEvent := SSEEvent{
			Event: "chunk",
			Data: StreamChunkEvent{
				Text: chunk,
			},
		}

		if formatEvent, ok := chunkEvent.Format(); ok == nil {
			fmt.Fprint(writer, formatEvent)
			flusher.Flush()
		}

		return nil
	})

	if err != nil {
		errorEvent := SSEEvent{
			Event: "error",
			Data: StreamErrorEvent{
				Error: err.Error(),
			},
		}

		if formatEvent, ok := errorEvent.Format(); ok == nil {
			fmt.Fprint(writer, formatEvent)
			flusher.Flush()
		}
		return &StageError{Stage: StageGenerate, Err: err}
	}

	doneEvent := SSEEvent{
		Event: "done",
		Data: StreamDoneEvent{
			StopReason: response.StopReason,
		},
	}
	if formatEvent, ok := doneEvent.Format(); ok == nil {
		fmt.Fprint(writer, formatEvent)
		flusher.Flush()
	}

	return nil
}

func (s *Service) stageContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func toSources(results []retrieval.Result) []Source {
	sources := make([]Source, 0, len(results))
	for _, result := range results {
		sources = append(sources, Source{
			Text:  result.Text,
			Score: result.Score,
		})
	}
	return sources
}

package chat

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog/log"

	"github.com/allychat/rag-agent/internal/middleware"
)

const generationFailedAnswer = "Answer generation failed. The most relevant sources are included below."

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

// Chat handles POST /api/v1/chat
func (h *Handler) Chat(req *restful.Request, resp *restful.Response) {
	var chatRequest ChatRequest

	if err := req.ReadEntity(&chatRequest); err != nil {
		log.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	chatRequest.SetDefaults(h.service.DefaultTopK())
	if err := chatRequest.Validate(); err != nil {
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	log.Info().
		Str("query", chatRequest.Query).
		Int("top_k", chatRequest.TopK).
		Msg("Process chat request")

	ctx := req.Request.Context()

	chatResponse, err := h.service.Ask(ctx, chatRequest)
	if err != nil {
		h.writeStageError(resp, chatResponse, err)
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, chatResponse)
}

// ChatStream handles POST /api/v1/chat/stream
func (h *Handler) ChatStream(req *restful.Request, resp *restful.Response) {
	var chatRequest ChatRequest

	if err := req.ReadEntity(&chatRequest); err != nil {
		log.Error().Err(err).Msg("Unable to parse chat request")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	chatRequest.SetDefaults(h.service.DefaultTopK())
	if err := chatRequest.Validate(); err != nil {
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	log.Info().
		Str("query", chatRequest.Query).
		Int("top_k", chatRequest.TopK).
		Msg("Process chat stream request")

	if !h.service.CanStream() {
		middleware.HandleError(resp, fmt.Errorf("configured LLM provider does not support streaming"), http.StatusInternalServerError)
		return
	}

	writer := resp.ResponseWriter
	flusher, ok := writer.(http.Flusher)
	if !ok {
		middleware.HandleError(resp, fmt.Errorf("streaming not supported"), http.StatusInternalServerError)
		return
	}

	ctx := req.Request.Context()

	// Retrieve before committing to SSE so embed/retrieve failures still
	// produce a regular JSON error response.
	results, err := h.service.RetrieveSources(ctx, chatRequest)
	if err != nil {
		log.Error().Err(err).Msg("Chat stream failed before streaming started")
		middleware.HandleError(resp, err, http.StatusInternalServerError)
		return
	}

	resp.AddHeader("Content-Type", "text/event-stream")
	resp.AddHeader("Cache-Control", "no-cache")
	resp.AddHeader("Connection", "keep-alive")
	resp.AddHeader("X-Accel-Buffering", "no")

	if err := h.service.StreamAnswer(ctx, chatRequest, results, flusher, writer); err != nil {
		// The stream already carries an error event; the HTTP status is gone.
		log.Error().Err(err).Msg("Chat stream failed")
		return
	}

	flusher.Flush()
}

// Health handles GET /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	healthResponse := HealthResponse{
		Status:  "ok",
		Version: "1.0.0",
	}

	resp.WriteHeaderAndEntity(http.StatusOK, healthResponse)
}

// writeStageError maps a pipeline failure to an HTTP response. Generation
// failures are the partial-success case: the body keeps the retrieved
// sources so the caller retains them, with a 502 marking the degradation.
func (h *Handler) writeStageError(resp *restful.Response, chatResponse ChatResponse, err error) {
	var stageErr *StageError
	if errors.As(err, &stageErr) && stageErr.Stage == StageGenerate {
		chatResponse.Answer = generationFailedAnswer
		resp.WriteHeaderAndEntity(http.StatusBadGateway, chatResponse)
		return
	}

	log.Error().Err(err).Msg("Chat request failed")
	middleware.HandleError(resp, err, http.StatusInternalServerError)
}

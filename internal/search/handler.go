package search

import (
	"net/http"

	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog/log"

	"github.com/allychat/rag-agent/internal/middleware"
	"github.com/allychat/rag-agent/internal/retrieval"
)

type SearchHandler struct {
	retriever *retrieval.Retriever
}

func NewSearchHandler(retriever *retrieval.Retriever) *SearchHandler {
	return &SearchHandler{
		retriever: retriever,
	}
}

// SemanticSearch handles POST /search/v1/semantic
func (h *SearchHandler) SemanticSearch(req *restful.Request, resp *restful.Response) {
	var searchRequest SearchRequest

	if err := req.ReadEntity(&searchRequest); err != nil {
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	if searchRequest.Query == "" {
		middleware.HandleError(resp, middleware.ErrEmptyQuery, http.StatusBadRequest)
		return
	}

	if searchRequest.Limit < 0 {
		middleware.HandleError(resp, middleware.ErrInvalidLimit, http.StatusBadRequest)
		return
	}

	// Set default search request limit if it's not set by the user
	if searchRequest.Limit == 0 {
		searchRequest.Limit = 10
	}

	ctx := req.Request.Context()

	results, err := h.retriever.Retrieve(ctx, searchRequest.Query, searchRequest.Limit)
	if err != nil {
		log.Error().Err(err).Msg("Semantic search failed")
		middleware.HandleError(resp, err, http.StatusInternalServerError)
		return
	}

	response := SearchResponse{
		Query:  searchRequest.Query,
		Result: results,
		Count:  len(results),
	}

	resp.WriteEntity(response)
}

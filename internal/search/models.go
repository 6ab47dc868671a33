package search

import "github.com/allychat/rag-agent/internal/retrieval"

type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty" description:"Max results (default: 10)"`
}

type SearchResponse struct {
	Query  string             `json:"query"`
	Result []retrieval.Result `json:"result"`
	Count  int                `json:"count"`
}

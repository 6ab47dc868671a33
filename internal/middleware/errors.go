package middleware

import (
	"errors"
	"net/http"

	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog/log"
)

var (
	ErrEmptyQuery         = errors.New("query must not be empty")
	ErrInvalidTopK        = errors.New("top_k must be between 1 and 50")
	ErrInvalidLimit       = errors.New("limit must not be negative")
	ErrInvalidMaxTokens   = errors.New("max_tokens must be between 0 and 100000")
	ErrInvalidTemperature = errors.New("temperature must be between 0.0 and 1.0")
)

type ErrorResponse struct {
	Error string `json:"error" description:"Error message"`
	Code  int    `json:"code" description:"HTTP status code"`
}

func HandleError(resp *restful.Response, err error, code int) {
	body := ErrorResponse{
		Error: err.Error(),
		Code:  code,
	}

	if writeErr := resp.WriteHeaderAndEntity(code, body); writeErr != nil {
		log.Error().Err(writeErr).Msg("Failed to write error response")
		http.Error(resp.ResponseWriter, err.Error(), code)
	}
}

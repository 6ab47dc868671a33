package chat

import "fmt"

// Pipeline stages. A request fails in exactly one of them, and the handler
// maps the stage to an HTTP response.
const (
	StageEmbed    = "embed"
	StageRetrieve = "retrieve"
	StageGenerate = "generate"
)

// StageError records which pipeline stage a collaborator failure happened in.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

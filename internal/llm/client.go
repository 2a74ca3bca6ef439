// Package llm provides the model-completion client used by the pipeline
// stages. Stages depend only on the Client interface; the Gemini
// implementation lives in gemini.go.
package llm

import (
	"context"
	"errors"
)

// Client defines the interface for LLM providers.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ErrEmptyCompletion is returned when the provider answers with no text.
var ErrEmptyCompletion = errors.New("llm: empty completion")

// Package llm provides text-in, text-out language model completion for the
// booking interpreter.
package llm

import "context"

// Request is a single chat completion: one system and one user message.
type Request struct {
	SystemPrompt string  `json:"systemPrompt"`
	UserPrompt   string  `json:"userPrompt"`
	Model        string  `json:"model"`
	Temperature  float32 `json:"temperature"`
}

// Completer returns the raw completion text for a request.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
	// Provider names the backend for metrics and logs.
	Provider() string
}

// Invalidator is implemented by completers that remember answers. Callers
// invalidate a request whose completion they could not use, so the next
// attempt reaches the model again.
type Invalidator interface {
	Invalidate(ctx context.Context, req Request) error
}

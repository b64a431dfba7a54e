package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUnavailable marks failures reaching the inference service itself.
var ErrUnavailable = errors.New("language model unavailable")

// Client sends single-turn prompts to a language model.
type Client interface {
	// Name identifies the backend and model, e.g. "ollama/mistral".
	Name() string
	// Chat sends prompt as a user message and returns the reply text.
	Chat(ctx context.Context, prompt string) (string, error)
	// Ping verifies the service is reachable and the model is usable.
	Ping(ctx context.Context) error
}

// StatusError is a non-2xx reply from an HTTP backend.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("llm request: http %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

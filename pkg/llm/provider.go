// Package llm defines the contract for text-generation backends and carries
// the OpenAI implementation in a subpackage.
package llm

import "context"

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Generate sends a single prompt with a system instruction and returns
	// the full response.
	Generate(ctx context.Context, prompt, systemInstruction string) (string, error)

	// Stream sends the same request but delivers the response incrementally
	// through onDelta, returning the accumulated full response at the end.
	// A non-nil error from onDelta stops the stream.
	Stream(ctx context.Context, prompt, systemInstruction string, onDelta func(delta string) error) (string, error)
}

// Error is returned when a generation call fails.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

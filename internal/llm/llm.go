package llm

import (
	"ai-fitness-coach/internal/shared"
	"context"
)

// Request is a single text-generation call.
type Request struct {
	Prompt string
	// JSON asks the provider to emit a JSON document instead of free text.
	JSON bool
}

// ContentResponse contains the generated text and metadata like token usage.
type ContentResponse struct {
	Content string
	Usage   shared.TokenUsage
}

// TextGenerator is an interface for generating text from a prompt.
type TextGenerator interface {
	GenerateContent(ctx context.Context, req Request) (ContentResponse, error)
}

// Closer is an interface for closing resources.
type Closer interface {
	Close() error
}

// Client is a TextGenerator that holds resources that must be released.
type Client interface {
	TextGenerator
	Closer
}

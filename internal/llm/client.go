package llm

import (
	"context"
)

// LLMClient is the chat-completion surface. Output is untrusted free text;
// callers validate before use.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// EmbedderClient produces fixed-dimensionality vectors, deterministic for
// identical input.
type EmbedderClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

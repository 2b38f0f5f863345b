package llm

import "context"

// Completer is the language-model capability the pipeline depends on:
// prompt plus JSON Schema in, schema-conforming JSON out. Implementations
// must fail (not degrade) when they cannot produce valid output.
type Completer interface {
	Complete(ctx context.Context, prompt string, outputSchema map[string]any) ([]byte, error)
}

package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Gateway abstracts the external text-generation service behind the two
// operations the editor needs. Implementations are expected to be
// non-deterministic: re-sending the same input yields a similarly improved
// but not byte-identical result.
type Gateway interface {
	// OptimizeContent rewrites a text fragment for language, clarity, and
	// organization.
	OptimizeContent(ctx context.Context, content string) (OptimizeResult, error)

	// EnhanceResume rewrites the full resume document. resumeJSON is the
	// document in its wire shape; the returned EnhancedResume must conform
	// to the same shape, though list-entry identifiers may be regenerated.
	EnhanceResume(ctx context.Context, resumeJSON json.RawMessage, prompt string) (EnhanceResult, error)
}

// OptimizeResult is the response of the optimize operation.
type OptimizeResult struct {
	OptimizedContent string   `json:"optimizedContent"`
	Suggestions      []string `json:"suggestions"`
}

// EnhanceResult is the response of the enhance operation. EnhancedResume is
// kept raw; the caller validates its shape before trusting it.
type EnhanceResult struct {
	EnhancedResume json.RawMessage `json:"enhancedResume"`
	Suggestions    []string        `json:"suggestions"`
}

// ErrNotConfigured is returned by the placeholder gateway when no provider
// credentials are set.
var ErrNotConfigured = errors.New("AI provider not configured")

// PlaceholderGateway is a stub implementation used when no provider is wired.
type PlaceholderGateway struct{}

// OptimizeContent returns ErrNotConfigured.
func (PlaceholderGateway) OptimizeContent(ctx context.Context, content string) (OptimizeResult, error) {
	_ = ctx
	_ = content
	return OptimizeResult{}, ErrNotConfigured
}

// EnhanceResume returns ErrNotConfigured.
func (PlaceholderGateway) EnhanceResume(ctx context.Context, resumeJSON json.RawMessage, prompt string) (EnhanceResult, error) {
	_ = ctx
	_ = resumeJSON
	_ = prompt
	return EnhanceResult{}, ErrNotConfigured
}

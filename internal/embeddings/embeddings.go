// Package embeddings converts text into fixed-length vectors via the
// OpenAI embeddings API.
//
// The provider batches document requests up to a configured maximum
// batch size, retries transient failures with bounded exponential
// backoff, and trips a circuit breaker when the upstream is failing hard
// so bulk indexing fails fast instead of grinding through timeouts.
package embeddings

import (
	"context"
	"errors"
)

var (
	// ErrEmptyInput indicates empty or nil input texts.
	ErrEmptyInput = errors.New("empty or nil input texts")

	// ErrInvalidConfig indicates invalid configuration.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEmbeddingFailed indicates embedding generation failure.
	ErrEmbeddingFailed = errors.New("embedding generation failed")
)

// Embedder generates vector embeddings from text.
type Embedder interface {
	// EmbedQuery generates an embedding for a single query text.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// EmbedDocuments generates embeddings for multiple texts, batching
	// internally so no upstream request exceeds the provider's maximum
	// batch size. Returns one embedding per input text, in order.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the embedding dimension of the configured model.
	Dimension() int
}

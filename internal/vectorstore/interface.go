// Package vectorstore provides persistent storage and nearest-neighbor
// search for embedded legal text chunks.
package vectorstore

import (
	"context"
	"errors"
)

// Sentinel errors for vector store operations.
var (
	// ErrInvalidConfig indicates invalid configuration.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEmptyDocuments indicates empty or nil documents.
	ErrEmptyDocuments = errors.New("empty or nil documents")

	// ErrEmptyFilter indicates a delete was attempted without a filter.
	ErrEmptyFilter = errors.New("empty filter")

	// ErrStoreUnavailable indicates the underlying store rejected an operation.
	ErrStoreUnavailable = errors.New("vector store unavailable")
)

// Document is one (id, vector, text, metadata) tuple to persist.
// The embedding is computed by the caller; the store never embeds.
type Document struct {
	// ID is the unique identifier. Writing an existing ID replaces the
	// stored tuple (upsert semantics).
	ID string

	// Content is the chunk text.
	Content string

	// Embedding is the precomputed vector for Content.
	Embedding []float32

	// Metadata holds exact-match filterable fields (see docmeta keys).
	Metadata map[string]string
}

// Result is one nearest neighbor returned by Query.
type Result struct {
	// ID is the stored document's identifier.
	ID string

	// Content is the chunk text.
	Content string

	// Distance is the cosine distance to the query vector, in [0, 2];
	// lower is closer. Callers convert to similarity as 1 - distance.
	Distance float32

	// Metadata is the stored metadata map.
	Metadata map[string]string
}

// Store persists embedded chunks and answers filtered nearest-neighbor
// queries by cosine distance.
type Store interface {
	// Upsert writes documents, replacing any stored tuple with the same ID.
	Upsert(ctx context.Context, docs []Document) error

	// Query returns up to k nearest neighbors of vector, closest first.
	// A non-nil where map restricts results to documents whose metadata
	// matches every entry exactly. Fewer than k results (or none) is not
	// an error.
	Query(ctx context.Context, vector []float32, k int, where map[string]string) ([]Result, error)

	// DeleteWhere removes every document whose metadata matches all
	// entries of where. The filter must not be empty.
	DeleteWhere(ctx context.Context, where map[string]string) error

	// Count returns the total number of stored documents.
	Count(ctx context.Context) (int, error)

	// Close releases resources held by the store.
	Close() error
}

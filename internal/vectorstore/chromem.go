package vectorstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	chromem "github.com/philippgille/chromem-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// chromemTracer for OpenTelemetry instrumentation.
var chromemTracer = otel.Tracer("normad.vectorstore.chromem")

// ChromemConfig holds configuration for the chromem-go embedded vector
// database.
type ChromemConfig struct {
	// Path is the directory for persistent storage.
	// Default: "~/.local/share/normad/vectorstore"
	Path string `koanf:"path"`

	// Compress enables gzip compression for stored data.
	Compress bool `koanf:"compress"`

	// Collection is the collection name.
	// Default: "transito_colombia_v2"
	Collection string `koanf:"collection"`

	// VectorSize is the expected embedding dimension. Must match the
	// embedding model's output dimension.
	// Default: 1536 (text-embedding-3-small)
	VectorSize int `koanf:"vector_size"`
}

// ApplyDefaults sets default values for unset fields.
func (c *ChromemConfig) ApplyDefaults() {
	if c.Path == "" {
		c.Path = "~/.local/share/normad/vectorstore"
	}
	if c.Collection == "" {
		c.Collection = "transito_colombia_v2"
	}
	if c.VectorSize == 0 {
		c.VectorSize = 1536
	}
}

// Validate validates the configuration.
func (c *ChromemConfig) Validate() error {
	if c.VectorSize <= 0 {
		return fmt.Errorf("%w: vector size must be positive", ErrInvalidConfig)
	}
	if c.Collection == "" {
		return fmt.Errorf("%w: collection name required", ErrInvalidConfig)
	}
	return nil
}

// ChromemStore implements Store using chromem-go.
//
// chromem-go is an embeddable vector database with zero third-party
// dependencies: pure Go, no external service, automatic persistence to
// gob files, exact cosine similarity search. All embeddings are computed
// by the caller and passed in, so the collection's embedding function is
// never invoked.
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
	config     ChromemConfig
	logger     *zap.Logger
}

// NewChromemStore opens (or creates) the persistent database and
// collection described by config.
func NewChromemStore(config ChromemConfig, logger *zap.Logger) (*ChromemStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	expandedPath, err := expandPath(config.Path)
	if err != nil {
		return nil, fmt.Errorf("expanding path: %w", err)
	}

	if err := os.MkdirAll(expandedPath, 0o755); err != nil {
		return nil, fmt.Errorf("creating directory %s: %w", expandedPath, err)
	}

	db, err := chromem.NewPersistentDB(expandedPath, config.Compress)
	if err != nil {
		return nil, fmt.Errorf("creating chromem DB: %w", err)
	}

	// An explicit embedding function must be passed; chromem-go installs
	// an OpenAI default when given nil, which would bypass our embedder.
	collection, err := db.GetOrCreateCollection(config.Collection, nil, rejectEmbedding)
	if err != nil {
		return nil, fmt.Errorf("getting/creating collection %s: %w", config.Collection, err)
	}

	store := &ChromemStore{
		db:         db,
		collection: collection,
		config:     config,
		logger:     logger,
	}

	logger.Info("chromem store initialized",
		zap.String("path", expandedPath),
		zap.String("collection", config.Collection),
		zap.Int("vector_size", config.VectorSize),
		zap.Int("stored_documents", collection.Count()),
	)

	return store, nil
}

// rejectEmbedding is installed as the collection's embedding function.
// Every write and query carries a precomputed vector, so a call here
// means a code path forgot to embed.
func rejectEmbedding(ctx context.Context, text string) ([]float32, error) {
	return nil, fmt.Errorf("embedding requested from store for %d bytes of text; vectors must be precomputed", len(text))
}

// expandPath expands a leading ~ to the home directory.
func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// Upsert writes documents, replacing stored tuples with the same ID.
func (s *ChromemStore) Upsert(ctx context.Context, docs []Document) error {
	ctx, span := chromemTracer.Start(ctx, "ChromemStore.Upsert")
	defer span.End()

	span.SetAttributes(attribute.Int("document_count", len(docs)))

	if len(docs) == 0 {
		return ErrEmptyDocuments
	}

	chromemDocs := make([]chromem.Document, len(docs))
	for i, doc := range docs {
		if doc.ID == "" {
			return fmt.Errorf("%w: document at index %d has empty ID", ErrInvalidConfig, i)
		}
		if len(doc.Embedding) != s.config.VectorSize {
			return fmt.Errorf("%w: document %s has embedding size %d, want %d",
				ErrInvalidConfig, doc.ID, len(doc.Embedding), s.config.VectorSize)
		}
		chromemDocs[i] = chromem.Document{
			ID:        doc.ID,
			Content:   doc.Content,
			Metadata:  doc.Metadata,
			Embedding: doc.Embedding,
		}
	}

	// Concurrency of 1: embeddings are already present, chromem only copies.
	if err := s.collection.AddDocuments(ctx, chromemDocs, 1); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("%w: adding documents: %v", ErrStoreUnavailable, err)
	}

	span.SetStatus(codes.Ok, "success")
	s.logger.Debug("upserted documents",
		zap.String("collection", s.config.Collection),
		zap.Int("count", len(docs)),
	)
	return nil
}

// Query returns up to k nearest neighbors of vector, closest first.
func (s *ChromemStore) Query(ctx context.Context, vector []float32, k int, where map[string]string) ([]Result, error) {
	ctx, span := chromemTracer.Start(ctx, "ChromemStore.Query")
	defer span.End()

	span.SetAttributes(
		attribute.String("collection", s.config.Collection),
		attribute.Int("k", k),
	)

	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}
	if len(vector) != s.config.VectorSize {
		return nil, fmt.Errorf("query vector size %d, want %d", len(vector), s.config.VectorSize)
	}

	// chromem requires nResults <= document count.
	docCount := s.collection.Count()
	if docCount == 0 {
		return []Result{}, nil
	}
	if k > docCount {
		k = docCount
	}

	results, err := s.collection.QueryEmbedding(ctx, vector, k, where, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%w: querying collection %s: %v", ErrStoreUnavailable, s.config.Collection, err)
	}

	out := make([]Result, len(results))
	for i, r := range results {
		out[i] = Result{
			ID:       r.ID,
			Content:  r.Content,
			Distance: 1 - r.Similarity,
			Metadata: r.Metadata,
		}
	}

	span.SetAttributes(attribute.Int("results_count", len(out)))
	span.SetStatus(codes.Ok, "success")
	return out, nil
}

// DeleteWhere removes every document matching all entries of where.
func (s *ChromemStore) DeleteWhere(ctx context.Context, where map[string]string) error {
	ctx, span := chromemTracer.Start(ctx, "ChromemStore.DeleteWhere")
	defer span.End()

	if len(where) == 0 {
		return ErrEmptyFilter
	}

	before := s.collection.Count()
	if before == 0 {
		return nil
	}

	if err := s.collection.Delete(ctx, where, nil); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("%w: deleting documents: %v", ErrStoreUnavailable, err)
	}

	span.SetAttributes(attribute.Int("deleted", before-s.collection.Count()))
	span.SetStatus(codes.Ok, "success")

	s.logger.Debug("deleted documents",
		zap.String("collection", s.config.Collection),
		zap.Any("where", where),
		zap.Int("deleted", before-s.collection.Count()),
	)
	return nil
}

// Count returns the total number of stored documents.
func (s *ChromemStore) Count(ctx context.Context) (int, error) {
	return s.collection.Count(), nil
}

// Close closes the store. chromem-go persists on every write, so there
// is nothing to flush.
func (s *ChromemStore) Close() error {
	s.logger.Debug("chromem store closed")
	return nil
}

// Ensure ChromemStore implements Store.
var _ Store = (*ChromemStore)(nil)

// Package indexer ingests normative documents into the vector store.
//
// Each document is chunked, enriched with legal metadata, embedded and
// upserted under deterministic IDs. A persistent manifest tracks content
// hashes so unchanged documents are skipped; changed documents have their
// previous vectors deleted before the new ones are inserted.
package indexer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/vialtech/normad/internal/chunker"
	"github.com/vialtech/normad/internal/docmeta"
	"github.com/vialtech/normad/internal/embeddings"
	"github.com/vialtech/normad/internal/extract"
	"github.com/vialtech/normad/internal/sources"
	"github.com/vialtech/normad/internal/vectorstore"
)

var indexerTracer = otel.Tracer("normad.indexer")

var (
	// ErrInvalidConfig indicates indexing configuration validation failed.
	ErrInvalidConfig = errors.New("invalid indexer config")
	// ErrFileNotFound indicates the document file does not exist.
	ErrFileNotFound = errors.New("document file not found")
)

const (
	DefaultManifestPath = "~/.local/share/normad/manifest.json"
	DefaultBatchSize    = 50
)

// Config holds indexing settings.
type Config struct {
	ManifestPath string `koanf:"manifest_path"`
	BatchSize    int    `koanf:"batch_size"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.ManifestPath == "" {
		c.ManifestPath = DefaultManifestPath
	}
	if c.BatchSize == 0 {
		c.BatchSize = DefaultBatchSize
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.ManifestPath == "" {
		return fmt.Errorf("%w: manifest_path is required", ErrInvalidConfig)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("%w: batch_size must be positive", ErrInvalidConfig)
	}
	return nil
}

// Document pairs a file path with the catalog source it belongs to.
type Document struct {
	Path   string
	Source string
}

// Result reports the outcome of indexing one document.
type Result struct {
	Source  string
	Chunks  int
	Skipped bool
}

// Stats summarizes the indexed corpus.
type Stats struct {
	Documents   int
	Chunks      int
	StoredCount int
	BySource    map[string]int
}

// Indexer coordinates chunking, metadata extraction, embedding and storage.
type Indexer struct {
	config   Config
	chunker  *chunker.Chunker
	embedder embeddings.Embedder
	store    vectorstore.Store
	registry *sources.Registry
	logger   *zap.Logger

	mu       sync.Mutex
	manifest *Manifest
	locks    map[string]*sync.Mutex
}

// New creates an Indexer and loads its manifest from disk.
func New(config Config, ch *chunker.Chunker, embedder embeddings.Embedder, store vectorstore.Store, registry *sources.Registry, logger *zap.Logger) (*Indexer, error) {
	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	manifestPath, err := expandPath(config.ManifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve manifest path: %w", err)
	}
	config.ManifestPath = manifestPath

	manifest, err := LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}

	return &Indexer{
		config:   config,
		chunker:  ch,
		embedder: embedder,
		store:    store,
		registry: registry,
		logger:   logger,
		manifest: manifest,
		locks:    make(map[string]*sync.Mutex),
	}, nil
}

// IndexDocument ingests one document file under a catalog source ID.
//
// When the file's content hash matches the manifest entry and force is
// false, the document is skipped. Otherwise all chunks are embedded first,
// the source's previous vectors are deleted, and the new vectors are
// inserted in batches. The manifest is updated only after every batch has
// been stored, so a crash mid-index leaves the document marked stale and
// it is re-indexed on the next run.
func (ix *Indexer) IndexDocument(ctx context.Context, path, sourceID string, force bool) (Result, error) {
	ctx, span := indexerTracer.Start(ctx, "indexer.IndexDocument")
	defer span.End()
	span.SetAttributes(
		attribute.String("document.path", path),
		attribute.String("document.source", sourceID),
		attribute.Bool("document.force", force),
	)

	result := Result{Source: sourceID}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			err = fmt.Errorf("%w: %s", ErrFileNotFound, path)
		} else {
			err = fmt.Errorf("failed to read document %s: %w", path, err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return result, err
	}

	hash := hashContent(content)
	lock := ix.sourceLock(sourceID)
	lock.Lock()
	defer lock.Unlock()

	ix.mu.Lock()
	entry, known := ix.manifest.Get(path)
	ix.mu.Unlock()

	if known && entry.Hash == hash && !force {
		ix.logger.Info("document unchanged, skipping",
			zap.String("path", path),
			zap.String("source", sourceID),
			zap.Int("chunks", entry.ChunkCount))
		result.Chunks = entry.ChunkCount
		result.Skipped = true
		return result, nil
	}

	doc, lookupErr := ix.registry.Lookup(sourceID)
	if lookupErr != nil {
		// Not fatal: index with placeholder metadata so the content is
		// still searchable.
		ix.logger.Warn("source not in catalog, using defaults",
			zap.String("source", sourceID))
		doc = ix.registry.LookupOrDefault(sourceID)
	}

	chunks, err := ix.chunker.Split(string(content), doc.Type)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return result, fmt.Errorf("failed to chunk document %s: %w", path, err)
	}

	docs := ix.buildDocuments(chunks, doc)

	if err := ix.embedBatches(ctx, docs); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return result, err
	}

	// Replace previous vectors for this source only after every embedding
	// succeeded, keeping the delete-to-reinsert window as small as possible.
	if err := ix.store.DeleteWhere(ctx, map[string]string{docmeta.KeySource: sourceID}); err != nil {
		if !errors.Is(err, vectorstore.ErrEmptyFilter) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return result, fmt.Errorf("failed to delete previous vectors for %s: %w", sourceID, err)
		}
	}

	for start := 0; start < len(docs); start += ix.config.BatchSize {
		end := start + ix.config.BatchSize
		if end > len(docs) {
			end = len(docs)
		}
		if err := ix.store.Upsert(ctx, docs[start:end]); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return result, fmt.Errorf("failed to store batch %d-%d for %s: %w", start, end, sourceID, err)
		}
	}

	ix.mu.Lock()
	ix.manifest.Set(path, ManifestEntry{
		Hash:       hash,
		SourceID:   sourceID,
		ChunkCount: len(docs),
		IndexedAt:  time.Now().UTC().Format(time.RFC3339),
	})
	saveErr := ix.manifest.Save()
	ix.mu.Unlock()
	if saveErr != nil {
		span.RecordError(saveErr)
		span.SetStatus(codes.Error, saveErr.Error())
		return result, saveErr
	}

	ix.logger.Info("document indexed",
		zap.String("path", path),
		zap.String("source", sourceID),
		zap.Int("chunks", len(docs)))

	result.Chunks = len(docs)
	return result, nil
}

// IndexAll ingests every document, continuing past per-document failures.
// The returned slice holds one Result per successfully processed document;
// the error aggregates any failures.
func (ix *Indexer) IndexAll(ctx context.Context, documents []Document, force bool) ([]Result, error) {
	ctx, span := indexerTracer.Start(ctx, "indexer.IndexAll")
	defer span.End()
	span.SetAttributes(attribute.Int("documents.count", len(documents)))

	results := make([]Result, 0, len(documents))
	var errs []error
	for _, doc := range documents {
		result, err := ix.IndexDocument(ctx, doc.Path, doc.Source, force)
		if err != nil {
			ix.logger.Error("failed to index document",
				zap.String("path", doc.Path),
				zap.String("source", doc.Source),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", doc.Source, err))
			continue
		}
		results = append(results, result)
	}
	return results, errors.Join(errs...)
}

// Stats reports manifest totals alongside the live vector count.
func (ix *Indexer) Stats(ctx context.Context) (Stats, error) {
	count, err := ix.store.Count(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to count stored vectors: %w", err)
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	return Stats{
		Documents:   ix.manifest.Len(),
		Chunks:      ix.manifest.TotalChunks(),
		StoredCount: count,
		BySource:    ix.manifest.ChunksBySource(),
	}, nil
}

// buildDocuments converts chunks into store documents with extracted legal
// metadata, carrying article, chapter and title forward across chunks that
// do not restate them.
func (ix *Indexer) buildDocuments(chunks []string, doc sources.SourceDocument) []vectorstore.Document {
	indexedAt := time.Now().UTC().Format(time.RFC3339)
	docs := make([]vectorstore.Document, 0, len(chunks))
	seen := make(map[string]struct{}, len(chunks))

	var carry extract.Carry
	for i, chunk := range chunks {
		fields := extract.FromText(chunk)
		fields, carry = carry.Apply(fields)

		chunkHash := docmeta.HashChunk(chunk)
		id := doc.ID + "_" + chunkHash
		if _, dup := seen[id]; dup {
			// Identical chunk text within one document maps to the same
			// hash; keep only the first occurrence.
			continue
		}
		seen[id] = struct{}{}

		meta := docmeta.Metadata{
			Source:         doc.ID,
			SourceName:     doc.Name,
			SourceType:     string(doc.Type),
			SourcePriority: doc.Priority,
			ChunkIndex:     i,
			ChunkHash:      chunkHash,
			IndexedAt:      indexedAt,
			Fields:         fields,
		}

		docs = append(docs, vectorstore.Document{
			ID:       id,
			Content:  chunk,
			Metadata: meta.ToMap(),
		})
	}
	return docs
}

// embedBatches fills in document embeddings, batched by config.BatchSize.
func (ix *Indexer) embedBatches(ctx context.Context, docs []vectorstore.Document) error {
	for start := 0; start < len(docs); start += ix.config.BatchSize {
		end := start + ix.config.BatchSize
		if end > len(docs) {
			end = len(docs)
		}

		texts := make([]string, 0, end-start)
		for _, d := range docs[start:end] {
			texts = append(texts, d.Content)
		}

		vectors, err := ix.embedder.EmbedDocuments(ctx, texts)
		if err != nil {
			return fmt.Errorf("failed to embed batch %d-%d: %w", start, end, err)
		}
		for i := range vectors {
			docs[start+i].Embedding = vectors[i]
		}
	}
	return nil
}

func (ix *Indexer) sourceLock(sourceID string) *sync.Mutex {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	lock, ok := ix.locks[sourceID]
	if !ok {
		lock = &sync.Mutex{}
		ix.locks[sourceID] = lock
	}
	return lock
}

func hashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func expandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

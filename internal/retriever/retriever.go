// Package retriever answers natural-language queries against the indexed
// corpus and formats the results as LLM-ready context.
package retriever

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/vialtech/normad/internal/citation"
	"github.com/vialtech/normad/internal/docmeta"
	"github.com/vialtech/normad/internal/embeddings"
	"github.com/vialtech/normad/internal/sources"
	"github.com/vialtech/normad/internal/vectorstore"
)

var retrieverTracer = otel.Tracer("normad.retriever")

var (
	// ErrInvalidConfig indicates retrieval configuration validation failed.
	ErrInvalidConfig = errors.New("invalid retriever config")
	// ErrEmptyQuery indicates the query was empty or whitespace.
	ErrEmptyQuery = errors.New("query cannot be empty")
)

// NoResultsMessage is returned as context when nothing relevant is stored.
const NoResultsMessage = "No se encontraron artículos o normas relevantes en la base de datos."

const (
	DefaultTopK = 5

	// DefaultBoostStep is the per-priority-level relevance multiplier
	// increment: a priority-1 source gets a 20% boost, priority 5 none.
	DefaultBoostStep = 0.05

	// DefaultDedupPrefixLen is the number of leading runes used to detect
	// near-duplicate chunks during context assembly.
	DefaultDedupPrefixLen = 100

	// overfetchFactor widens the vector query so that relevance filtering
	// and priority boosting still leave TopK candidates.
	overfetchFactor = 2
)

// Config holds retrieval settings.
type Config struct {
	TopK         int     `koanf:"top_k"`
	MinRelevance float64 `koanf:"min_relevance"`
	BoostStep    float64 `koanf:"boost_step"`
	DedupPrefix  int     `koanf:"dedup_prefix"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.TopK == 0 {
		c.TopK = DefaultTopK
	}
	if c.BoostStep == 0 {
		c.BoostStep = DefaultBoostStep
	}
	if c.DedupPrefix == 0 {
		c.DedupPrefix = DefaultDedupPrefixLen
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.TopK <= 0 {
		return fmt.Errorf("%w: top_k must be positive", ErrInvalidConfig)
	}
	if c.MinRelevance < 0 || c.MinRelevance >= 1 {
		return fmt.Errorf("%w: min_relevance must be in [0, 1)", ErrInvalidConfig)
	}
	if c.BoostStep < 0 {
		return fmt.Errorf("%w: boost_step cannot be negative", ErrInvalidConfig)
	}
	if c.DedupPrefix <= 0 {
		return fmt.Errorf("%w: dedup_prefix must be positive", ErrInvalidConfig)
	}
	return nil
}

// ScoredChunk is one retrieved chunk with its priority-boosted relevance.
type ScoredChunk struct {
	Content   string
	Relevance float64
	Metadata  docmeta.Metadata
}

// Option adjusts a single retrieval call.
type Option func(*callOptions)

type callOptions struct {
	topK              int
	minRelevance      float64
	sourceFilter      []string
	excludeReferences bool
}

// WithTopK overrides the configured result count for one call.
func WithTopK(n int) Option {
	return func(o *callOptions) { o.topK = n }
}

// WithMinRelevance overrides the configured relevance floor for one call.
func WithMinRelevance(min float64) Option {
	return func(o *callOptions) { o.minRelevance = min }
}

// WithSources restricts retrieval to the given catalog source IDs.
func WithSources(ids ...string) Option {
	return func(o *callOptions) { o.sourceFilter = ids }
}

// WithoutReferences omits reference lines from formatted context.
func WithoutReferences() Option {
	return func(o *callOptions) { o.excludeReferences = true }
}

// Retriever embeds queries and ranks stored chunks.
type Retriever struct {
	config    Config
	embedder  embeddings.Embedder
	store     vectorstore.Store
	formatter *citation.Formatter
	logger    *zap.Logger
}

// New creates a Retriever.
func New(config Config, embedder embeddings.Embedder, store vectorstore.Store, registry *sources.Registry, logger *zap.Logger) (*Retriever, error) {
	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retriever{
		config:    config,
		embedder:  embedder,
		store:     store,
		formatter: citation.NewFormatter(registry),
		logger:    logger,
	}, nil
}

// Retrieve returns the top chunks for a query, ordered by boosted relevance.
//
// The raw cosine similarity of each candidate is multiplied by
// 1 + (5 - priority) * BoostStep, so priority-1 statutes outrank
// priority-5 reference material at equal similarity. Candidates below the
// relevance floor are dropped before boosting.
func (r *Retriever) Retrieve(ctx context.Context, query string, opts ...Option) ([]ScoredChunk, error) {
	ctx, span := retrieverTracer.Start(ctx, "retriever.Retrieve")
	defer span.End()

	if strings.TrimSpace(query) == "" {
		span.SetStatus(codes.Error, ErrEmptyQuery.Error())
		return nil, ErrEmptyQuery
	}

	call := r.callOptions(opts)
	span.SetAttributes(
		attribute.Int("retrieval.top_k", call.topK),
		attribute.Float64("retrieval.min_relevance", call.minRelevance),
	)

	vector, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	where, postFilter := sourceWhere(call.sourceFilter)

	results, err := r.store.Query(ctx, vector, call.topK*overfetchFactor, where)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to query vector store: %w", err)
	}

	chunks := make([]ScoredChunk, 0, len(results))
	for _, result := range results {
		relevance := float64(1 - result.Distance)
		if relevance < call.minRelevance {
			continue
		}

		meta := docmeta.FromMap(result.Metadata)
		if postFilter != nil {
			if _, ok := postFilter[meta.Source]; !ok {
				continue
			}
		}

		chunks = append(chunks, ScoredChunk{
			Content:   result.Content,
			Relevance: relevance * r.priorityBoost(meta.SourcePriority),
			Metadata:  meta,
		})
	}

	sort.SliceStable(chunks, func(i, j int) bool {
		return chunks[i].Relevance > chunks[j].Relevance
	})
	if len(chunks) > call.topK {
		chunks = chunks[:call.topK]
	}

	span.SetAttributes(attribute.Int("retrieval.results", len(chunks)))
	r.logger.Debug("query retrieved",
		zap.Int("candidates", len(results)),
		zap.Int("results", len(chunks)))
	return chunks, nil
}

// ContextForQuery retrieves chunks and formats them as a single context
// string: numbered fragments with relevance percentages and reference
// lines, separated by blank lines. Near-duplicate chunks sharing their
// first 100 runes are emitted once.
func (r *Retriever) ContextForQuery(ctx context.Context, query string, opts ...Option) (string, error) {
	chunks, err := r.Retrieve(ctx, query, opts...)
	if err != nil {
		return "", err
	}
	if len(chunks) == 0 {
		return NoResultsMessage, nil
	}

	call := r.callOptions(opts)

	var parts []string
	seen := make(map[string]struct{}, len(chunks))
	for i, chunk := range chunks {
		key := r.contentKey(chunk.Content)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if call.excludeReferences {
			parts = append(parts, fmt.Sprintf("--- Fragmento %d ---\n%s", i+1, chunk.Content))
			continue
		}

		reference := r.formatter.FormatReference(chunk.Metadata)
		relevancePct := int(chunk.Relevance * 100)
		parts = append(parts, fmt.Sprintf("--- Fragmento %d (Relevancia: %d%%) ---\n%s\n\n%s",
			i+1, relevancePct, reference, chunk.Content))
	}

	return strings.Join(parts, "\n\n"), nil
}

func (r *Retriever) callOptions(opts []Option) callOptions {
	call := callOptions{
		topK:         r.config.TopK,
		minRelevance: r.config.MinRelevance,
	}
	for _, opt := range opts {
		opt(&call)
	}
	if call.topK <= 0 {
		call.topK = DefaultTopK
	}
	return call
}

// sourceWhere maps a source filter onto the store's equality filter. A
// single source becomes a store-side filter; multiple sources fall back to
// post-filtering since the store matches exact values only.
func sourceWhere(ids []string) (map[string]string, map[string]struct{}) {
	switch len(ids) {
	case 0:
		return nil, nil
	case 1:
		return map[string]string{docmeta.KeySource: ids[0]}, nil
	default:
		set := make(map[string]struct{}, len(ids))
		for _, id := range ids {
			set[id] = struct{}{}
		}
		return nil, set
	}
}

func (r *Retriever) priorityBoost(priority int) float64 {
	return 1 + float64(5-priority)*r.config.BoostStep
}

func (r *Retriever) contentKey(content string) string {
	runes := []rune(content)
	if len(runes) > r.config.DedupPrefix {
		runes = runes[:r.config.DedupPrefix]
	}
	return string(runes)
}

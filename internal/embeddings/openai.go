package embeddings

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Defaults for the OpenAI provider.
const (
	DefaultModel        = openai.SmallEmbedding3
	DefaultMaxBatchSize = 100
	DefaultMaxRetries   = 3
	DefaultRetryBackoff = 500 * time.Millisecond
)

// modelDimensions maps known embedding models to their output dimension.
var modelDimensions = map[openai.EmbeddingModel]int{
	openai.SmallEmbedding3: 1536,
	openai.LargeEmbedding3: 3072,
	openai.AdaEmbeddingV2:  1536,
}

// OpenAIConfig holds configuration for the OpenAI embedding provider.
type OpenAIConfig struct {
	// APIKey authenticates against the API.
	APIKey string `koanf:"api_key"`

	// BaseURL overrides the API endpoint, for OpenAI-compatible servers.
	BaseURL string `koanf:"base_url"`

	// Model is the embedding model name.
	// Default: "text-embedding-3-small"
	Model string `koanf:"model"`

	// MaxBatchSize caps how many texts go into one upstream request.
	// Default: 100
	MaxBatchSize int `koanf:"max_batch_size"`

	// MaxRetries bounds retries per upstream request on transient errors.
	// Default: 3
	MaxRetries int `koanf:"max_retries"`

	// RetryBackoff is the initial backoff interval; it doubles per retry.
	// Default: 500ms
	RetryBackoff time.Duration `koanf:"retry_backoff"`
}

// ApplyDefaults sets default values for unset fields.
func (c *OpenAIConfig) ApplyDefaults() {
	if c.Model == "" {
		c.Model = string(DefaultModel)
	}
	if c.MaxBatchSize == 0 {
		c.MaxBatchSize = DefaultMaxBatchSize
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.RetryBackoff == 0 {
		c.RetryBackoff = DefaultRetryBackoff
	}
}

// Validate validates the configuration.
func (c *OpenAIConfig) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("%w: API key required", ErrInvalidConfig)
	}
	if c.MaxBatchSize <= 0 {
		return fmt.Errorf("%w: max batch size must be positive", ErrInvalidConfig)
	}
	return nil
}

// embeddingAPI is the slice of the OpenAI client the provider uses.
// Narrowing it keeps the provider testable without network access.
type embeddingAPI interface {
	CreateEmbeddings(ctx context.Context, conv openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// OpenAIProvider implements Embedder on the OpenAI embeddings API.
type OpenAIProvider struct {
	api       embeddingAPI
	config    OpenAIConfig
	model     openai.EmbeddingModel
	dimension int
	breaker   *gobreaker.CircuitBreaker
	metrics   *Metrics
	logger    *zap.Logger
}

// NewOpenAIProvider creates a provider from config.
func NewOpenAIProvider(config OpenAIConfig, logger *zap.Logger) (*OpenAIProvider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	clientCfg := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientCfg.BaseURL = config.BaseURL
	}

	return newOpenAIProvider(openai.NewClientWithConfig(clientCfg), config, logger), nil
}

// newOpenAIProvider wires the provider around an API implementation.
// Split from NewOpenAIProvider so tests can inject a fake API.
func newOpenAIProvider(api embeddingAPI, config OpenAIConfig, logger *zap.Logger) *OpenAIProvider {
	model := openai.EmbeddingModel(config.Model)

	dimension, ok := modelDimensions[model]
	if !ok {
		dimension = modelDimensions[DefaultModel]
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "openai-embeddings",
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("embedding circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &OpenAIProvider{
		api:       api,
		config:    config,
		model:     model,
		dimension: dimension,
		breaker:   breaker,
		metrics:   NewMetrics(logger),
		logger:    logger,
	}
}

// Dimension returns the embedding dimension of the configured model.
func (p *OpenAIProvider) Dimension() int {
	return p.dimension
}

// EmbedQuery generates an embedding for a single query text.
func (p *OpenAIProvider) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()
	var genErr error
	defer func() {
		p.metrics.RecordGeneration(ctx, string(p.model), "embed_query", time.Since(start), 1, genErr)
	}()

	if text == "" {
		genErr = fmt.Errorf("%w: text cannot be empty", ErrEmptyInput)
		return nil, genErr
	}

	vectors, err := p.requestEmbeddings(ctx, []string{text})
	if err != nil {
		genErr = err
		return nil, genErr
	}
	return vectors[0], nil
}

// EmbedDocuments generates embeddings for texts, splitting the input into
// sub-batches of at most MaxBatchSize.
func (p *OpenAIProvider) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	start := time.Now()
	var genErr error
	defer func() {
		p.metrics.RecordGeneration(ctx, string(p.model), "embed_documents", time.Since(start), len(texts), genErr)
	}()

	if len(texts) == 0 {
		genErr = fmt.Errorf("%w: texts cannot be empty", ErrEmptyInput)
		return nil, genErr
	}

	all := make([][]float32, 0, len(texts))
	for i := 0; i < len(texts); i += p.config.MaxBatchSize {
		end := i + p.config.MaxBatchSize
		if end > len(texts) {
			end = len(texts)
		}

		vectors, err := p.requestEmbeddings(ctx, texts[i:end])
		if err != nil {
			genErr = fmt.Errorf("batch starting at %d: %w", i, err)
			return nil, genErr
		}
		all = append(all, vectors...)
	}

	return all, nil
}

// requestEmbeddings performs one upstream request through breaker and
// bounded retry. Retries only transient failures; client-side errors and
// an open breaker fail immediately.
func (p *OpenAIProvider) requestEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	req := openai.EmbeddingRequest{
		Input:          texts,
		Model:          p.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}

	var resp openai.EmbeddingResponse
	operation := func() error {
		result, err := p.breaker.Execute(func() (interface{}, error) {
			return p.api.CreateEmbeddings(ctx, req)
		})
		if err != nil {
			if isPermanentError(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		resp = result.(openai.EmbeddingResponse)
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(p.newExponentialBackOff(), uint64(p.config.MaxRetries)),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d texts", ErrEmbeddingFailed, len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(resp.Data))
	for i, item := range resp.Data {
		vectors[i] = item.Embedding
	}
	return vectors, nil
}

func (p *OpenAIProvider) newExponentialBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.config.RetryBackoff
	b.Multiplier = 2
	b.MaxElapsedTime = 0 // bounded by WithMaxRetries
	return b
}

// isPermanentError reports whether retrying cannot help: client-side API
// errors (bad request, auth) and a tripped breaker.
func isPermanentError(err error) bool {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return true
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
			return true
		}
	}
	return false
}

// Ensure OpenAIProvider implements Embedder.
var _ Embedder = (*OpenAIProvider)(nil)

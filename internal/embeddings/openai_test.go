package embeddings

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeAPI records batches and can fail the first N calls.
type fakeAPI struct {
	calls    [][]string
	failures int
	failWith error
}

func (f *fakeAPI) CreateEmbeddings(_ context.Context, conv openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error) {
	req := conv.Convert()
	texts, ok := req.Input.([]string)
	if !ok {
		return openai.EmbeddingResponse{}, fmt.Errorf("unexpected input type %T", req.Input)
	}
	f.calls = append(f.calls, texts)

	if f.failures > 0 {
		f.failures--
		if f.failWith != nil {
			return openai.EmbeddingResponse{}, f.failWith
		}
		return openai.EmbeddingResponse{}, errors.New("transient upstream error")
	}

	data := make([]openai.Embedding, len(texts))
	for i, text := range texts {
		data[i] = openai.Embedding{
			Index:     i,
			Embedding: []float32{float32(len(text)), 1},
		}
	}
	return openai.EmbeddingResponse{Data: data}, nil
}

func newTestProvider(t *testing.T, api *fakeAPI, mutate func(*OpenAIConfig)) *OpenAIProvider {
	t.Helper()

	config := OpenAIConfig{
		APIKey:       "test-key",
		MaxBatchSize: 100,
		MaxRetries:   3,
		RetryBackoff: time.Millisecond,
	}
	config.ApplyDefaults()
	if mutate != nil {
		mutate(&config)
	}
	return newOpenAIProvider(api, config, zap.NewNop())
}

func TestOpenAIConfig_Validate(t *testing.T) {
	config := OpenAIConfig{}
	config.ApplyDefaults()
	err := config.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	config.APIKey = "key"
	require.NoError(t, config.Validate())
	assert.Equal(t, string(DefaultModel), config.Model)
	assert.Equal(t, DefaultMaxBatchSize, config.MaxBatchSize)
}

func TestOpenAIProvider_EmbedQuery(t *testing.T) {
	api := &fakeAPI{}
	p := newTestProvider(t, api, nil)

	vec, err := p.EmbedQuery(context.Background(), "velocidad en zona escolar")
	require.NoError(t, err)
	assert.Len(t, vec, 2)
	require.Len(t, api.calls, 1)
	assert.Equal(t, []string{"velocidad en zona escolar"}, api.calls[0])
}

func TestOpenAIProvider_EmbedQuery_EmptyText(t *testing.T) {
	p := newTestProvider(t, &fakeAPI{}, nil)
	_, err := p.EmbedQuery(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestOpenAIProvider_EmbedDocuments_Batches(t *testing.T) {
	api := &fakeAPI{}
	p := newTestProvider(t, api, func(c *OpenAIConfig) { c.MaxBatchSize = 100 })

	texts := make([]string, 250)
	for i := range texts {
		texts[i] = fmt.Sprintf("chunk %d", i)
	}

	vectors, err := p.EmbedDocuments(context.Background(), texts)
	require.NoError(t, err)
	assert.Len(t, vectors, 250)

	// 250 texts at max batch 100 means exactly three upstream requests.
	require.Len(t, api.calls, 3)
	assert.Len(t, api.calls[0], 100)
	assert.Len(t, api.calls[1], 100)
	assert.Len(t, api.calls[2], 50)
	assert.Equal(t, "chunk 0", api.calls[0][0])
	assert.Equal(t, "chunk 249", api.calls[2][49])
}

func TestOpenAIProvider_EmbedDocuments_Empty(t *testing.T) {
	p := newTestProvider(t, &fakeAPI{}, nil)
	_, err := p.EmbedDocuments(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestOpenAIProvider_RetriesTransientErrors(t *testing.T) {
	api := &fakeAPI{failures: 2}
	p := newTestProvider(t, api, nil)

	vectors, err := p.EmbedDocuments(context.Background(), []string{"a"})
	require.NoError(t, err)
	assert.Len(t, vectors, 1)
	assert.Len(t, api.calls, 3)
}

func TestOpenAIProvider_DoesNotRetryClientErrors(t *testing.T) {
	api := &fakeAPI{
		failures: 10,
		failWith: &openai.APIError{HTTPStatusCode: http.StatusUnauthorized, Message: "bad key"},
	}
	p := newTestProvider(t, api, nil)

	_, err := p.EmbedDocuments(context.Background(), []string{"a"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmbeddingFailed)
	assert.Len(t, api.calls, 1)
}

func TestOpenAIProvider_Dimension(t *testing.T) {
	p := newTestProvider(t, &fakeAPI{}, nil)
	assert.Equal(t, 1536, p.Dimension())

	large := newTestProvider(t, &fakeAPI{}, func(c *OpenAIConfig) { c.Model = string(openai.LargeEmbedding3) })
	assert.Equal(t, 3072, large.Dimension())
}

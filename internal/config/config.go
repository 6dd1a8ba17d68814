// Package config provides configuration loading for normad.
package config

import (
	"errors"
	"fmt"

	"github.com/vialtech/normad/internal/chunker"
	"github.com/vialtech/normad/internal/embeddings"
	"github.com/vialtech/normad/internal/indexer"
	"github.com/vialtech/normad/internal/logging"
	"github.com/vialtech/normad/internal/retriever"
	"github.com/vialtech/normad/internal/vectorstore"
)

// ErrInvalidConfig indicates configuration validation failed.
var ErrInvalidConfig = errors.New("invalid config")

// DocumentRef points the indexer at a normative document on disk.
type DocumentRef struct {
	Path   string `koanf:"path"`
	Source string `koanf:"source"`
}

// Config is the root configuration for all normad components.
type Config struct {
	Logging     logging.Config            `koanf:"logging"`
	Chunking    chunker.Config            `koanf:"chunking"`
	Embeddings  embeddings.OpenAIConfig   `koanf:"embeddings"`
	VectorStore vectorstore.ChromemConfig `koanf:"vectorstore"`
	Indexing    indexer.Config            `koanf:"indexing"`
	Retrieval   retriever.Config          `koanf:"retrieval"`
	Documents   []DocumentRef             `koanf:"documents"`
}

// ApplyDefaults fills in zero-valued fields in every section.
func (c *Config) ApplyDefaults() {
	c.Logging.ApplyDefaults()
	c.Chunking.ApplyDefaults()
	c.Embeddings.ApplyDefaults()
	c.VectorStore.ApplyDefaults()
	c.Indexing.ApplyDefaults()
	c.Retrieval.ApplyDefaults()
}

// Validate checks every section plus the document references.
func (c *Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Chunking.Validate(); err != nil {
		return fmt.Errorf("chunking: %w", err)
	}
	if err := c.VectorStore.Validate(); err != nil {
		return fmt.Errorf("vectorstore: %w", err)
	}
	if err := c.Indexing.Validate(); err != nil {
		return fmt.Errorf("indexing: %w", err)
	}
	if err := c.Retrieval.Validate(); err != nil {
		return fmt.Errorf("retrieval: %w", err)
	}
	for i, doc := range c.Documents {
		if doc.Path == "" {
			return fmt.Errorf("%w: documents[%d]: path is required", ErrInvalidConfig, i)
		}
		if doc.Source == "" {
			return fmt.Errorf("%w: documents[%d]: source is required", ErrInvalidConfig, i)
		}
	}
	// Embeddings are validated separately: stats and dry runs work without
	// an API key, so callers that embed call c.Embeddings.Validate() themselves.
	return nil
}

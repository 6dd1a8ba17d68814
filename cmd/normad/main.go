// Package main implements the normad CLI: indexing and querying the
// Colombian transit-law corpus.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vialtech/normad/internal/chunker"
	"github.com/vialtech/normad/internal/config"
	"github.com/vialtech/normad/internal/embeddings"
	"github.com/vialtech/normad/internal/indexer"
	"github.com/vialtech/normad/internal/logging"
	"github.com/vialtech/normad/internal/retriever"
	"github.com/vialtech/normad/internal/sources"
	"github.com/vialtech/normad/internal/vectorstore"
)

var (
	configPath string
	version    = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "normad",
	Short: "Semantic search over Colombian transit law",
	Long: `normad indexes Colombian transit norms (laws, decrees, resolutions,
rulings and practical guides) into a local vector store and retrieves
cited, relevance-ranked fragments for natural-language questions.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/normad/config.yaml)")
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(sourcesCmd)
}

// app bundles the wired components a command needs.
type app struct {
	config   *config.Config
	logger   *zap.Logger
	registry *sources.Registry
	store    vectorstore.Store
}

func newApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, err
	}

	store, err := vectorstore.NewChromemStore(cfg.VectorStore, logger)
	if err != nil {
		logging.Sync(logger)
		return nil, fmt.Errorf("failed to open vector store: %w", err)
	}

	return &app{
		config:   cfg,
		logger:   logger,
		registry: sources.DefaultRegistry(),
		store:    store,
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close vector store", zap.Error(err))
	}
	logging.Sync(a.logger)
}

func (a *app) embedder() (embeddings.Embedder, error) {
	if err := a.config.Embeddings.Validate(); err != nil {
		return nil, err
	}
	return embeddings.NewOpenAIProvider(a.config.Embeddings, a.logger)
}

func (a *app) indexer() (*indexer.Indexer, error) {
	embedder, err := a.embedder()
	if err != nil {
		return nil, err
	}
	ch, err := chunker.New(a.config.Chunking)
	if err != nil {
		return nil, err
	}
	return indexer.New(a.config.Indexing, ch, embedder, a.store, a.registry, a.logger)
}

func (a *app) retriever() (*retriever.Retriever, error) {
	embedder, err := a.embedder()
	if err != nil {
		return nil, err
	}
	return retriever.New(a.config.Retrieval, embedder, a.store, a.registry, a.logger)
}

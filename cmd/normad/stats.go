package main

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/vialtech/normad/internal/chunker"
	"github.com/vialtech/normad/internal/indexer"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show corpus statistics",
	Long:  `Show how many documents and chunks are tracked, and how many vectors the store holds.`,
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	// Stats never embeds, so no API key or provider is needed.
	ch, err := chunker.New(a.config.Chunking)
	if err != nil {
		return err
	}
	ix, err := indexer.New(a.config.Indexing, ch, nil, a.store, a.registry, a.logger)
	if err != nil {
		return err
	}

	stats, err := ix.Stats(cmd.Context())
	if err != nil {
		return err
	}

	cmd.Printf("documents tracked: %d\n", stats.Documents)
	cmd.Printf("chunks indexed:    %d\n", stats.Chunks)
	cmd.Printf("vectors stored:    %d\n", stats.StoredCount)
	cmd.Printf("collection:        %s\n", a.config.VectorStore.Collection)
	cmd.Printf("embedding model:   %s\n", a.config.Embeddings.Model)

	if len(stats.BySource) > 0 {
		cmd.Println("\nchunks by source:")
		ids := make([]string, 0, len(stats.BySource))
		for id := range stats.BySource {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			cmd.Printf("  %-24s %d\n", id, stats.BySource[id])
		}
	}
	return nil
}

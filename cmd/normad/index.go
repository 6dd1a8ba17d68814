package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vialtech/normad/internal/indexer"
)

var (
	indexSource string
	indexForce  bool
)

var indexCmd = &cobra.Command{
	Use:   "index [file]",
	Short: "Index a document, or every configured document",
	Long: `Index a document file into the vector store under a catalog source ID.
Without arguments, every document listed in the configuration is indexed.
Unchanged documents are skipped unless --force is given.

Examples:
  # Index one document
  normad index codigo_transito.txt --source codigo_transito

  # Re-index everything from the config file
  normad index --force`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringVar(&indexSource, "source", "", "catalog source ID for the document")
	indexCmd.Flags().BoolVar(&indexForce, "force", false, "re-index even if the document is unchanged")
}

func runIndex(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ix, err := a.indexer()
	if err != nil {
		return err
	}

	if len(args) == 1 {
		if indexSource == "" {
			return fmt.Errorf("--source is required when indexing a single file")
		}
		result, err := ix.IndexDocument(cmd.Context(), args[0], indexSource, indexForce)
		if err != nil {
			return err
		}
		printResult(cmd, result)
		return nil
	}

	if len(a.config.Documents) == 0 {
		return fmt.Errorf("no documents configured; pass a file or add a documents section to the config")
	}

	documents := make([]indexer.Document, 0, len(a.config.Documents))
	for _, ref := range a.config.Documents {
		documents = append(documents, indexer.Document{Path: ref.Path, Source: ref.Source})
	}

	results, err := ix.IndexAll(cmd.Context(), documents, indexForce)
	for _, result := range results {
		printResult(cmd, result)
	}
	if err != nil {
		return err
	}

	total := 0
	for _, result := range results {
		total += result.Chunks
	}
	cmd.Printf("indexed %d documents, %d chunks total\n", len(results), total)
	return nil
}

func printResult(cmd *cobra.Command, result indexer.Result) {
	if result.Skipped {
		cmd.Printf("%s: unchanged, %d chunks kept\n", result.Source, result.Chunks)
		return
	}
	cmd.Printf("%s: indexed %d chunks\n", result.Source, result.Chunks)
}

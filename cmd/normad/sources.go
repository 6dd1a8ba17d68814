package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vialtech/normad/internal/sources"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the document catalog",
	Long:  `List the catalog of known normative sources with their types and priorities.`,
	Args:  cobra.NoArgs,
	RunE:  runSources,
}

func runSources(cmd *cobra.Command, _ []string) error {
	registry := sources.DefaultRegistry()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tPRIORITY\tYEAR\tNAME")
	for _, id := range registry.IDs() {
		doc, err := registry.Lookup(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n", doc.ID, doc.Type, doc.Priority, doc.Year, doc.Name)
	}
	return w.Flush()
}

package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/vialtech/normad/internal/citation"
	"github.com/vialtech/normad/internal/retriever"
)

var (
	queryTopK         int
	querySources      []string
	queryMinRelevance float64
	queryPlain        bool
	queryLinks        bool
)

var queryCmd = &cobra.Command{
	Use:   "query <question>",
	Short: "Retrieve relevant norm fragments for a question",
	Long: `Retrieve the most relevant indexed fragments for a natural-language
question and print them as formatted context with references.

Examples:
  normad query "¿Cuál es el límite de velocidad en zona escolar?"
  normad query --top-k 3 --source codigo_transito "sanción por pico y placa"
  normad query --links "fotomultas sin notificación"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVar(&queryTopK, "top-k", 0, "maximum results (0 = configured default)")
	queryCmd.Flags().StringSliceVar(&querySources, "source", nil, "restrict to catalog source IDs")
	queryCmd.Flags().Float64Var(&queryMinRelevance, "min-relevance", 0, "minimum relevance score in [0, 1)")
	queryCmd.Flags().BoolVar(&queryPlain, "plain", false, "omit reference lines")
	queryCmd.Flags().BoolVar(&queryLinks, "links", false, "print one markdown citation link per result")
}

func runQuery(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	r, err := a.retriever()
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")

	var opts []retriever.Option
	if queryTopK > 0 {
		opts = append(opts, retriever.WithTopK(queryTopK))
	}
	if len(querySources) > 0 {
		opts = append(opts, retriever.WithSources(querySources...))
	}
	if queryMinRelevance > 0 {
		opts = append(opts, retriever.WithMinRelevance(queryMinRelevance))
	}

	if queryLinks {
		chunks, err := r.Retrieve(cmd.Context(), query, opts...)
		if err != nil {
			return err
		}
		if len(chunks) == 0 {
			cmd.Println(retriever.NoResultsMessage)
			return nil
		}
		formatter := citation.NewFormatter(a.registry)
		for _, chunk := range chunks {
			cmd.Println(formatter.FormatLink(chunk.Metadata))
		}
		return nil
	}

	if queryPlain {
		opts = append(opts, retriever.WithoutReferences())
	}

	context, err := r.ContextForQuery(cmd.Context(), query, opts...)
	if err != nil {
		return err
	}
	cmd.Println(context)
	return nil
}

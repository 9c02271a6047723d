package main

import (
	"github.com/c360studio/kdd/container"
	"github.com/c360studio/kdd/domain"
	"github.com/c360studio/kdd/query"
	"github.com/spf13/cobra"
)

// openContainer resolves configuration, builds a Container and loads the
// on-disk artifact tree into its stores. Every query subcommand shares
// this setup.
func openContainer(flags *cliFlags) (*container.Container, error) {
	cfg := resolveConfig(flags)
	ct := container.New(cfg.Index.SpecsPath, cfg.Index.IndexPath, nil, false)
	if err := ct.EnsureLoaded(); err != nil {
		return nil, err
	}
	return ct, nil
}

func kindsFlag(raw []string) []domain.Kind {
	kinds := make([]domain.Kind, 0, len(raw))
	for _, k := range raw {
		kinds = append(kinds, domain.Kind(k))
	}
	return kinds
}

func searchCmd(flags *cliFlags) *cobra.Command {
	var (
		minScore     float64
		limit        int
		kinds        []string
		noEmbeddings bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run the hybrid (semantic + lexical + graph) query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ct, err := openContainer(flags)
			if err != nil {
				return err
			}

			if noEmbeddings {
				ct.Engine.Vectors = nil
				ct.Engine.Encoder = nil
			}

			input := query.DefaultHybridQueryInput(args[0])
			input.IncludeKinds = kindsFlag(kinds)
			if minScore != 0 {
				input.MinScore = minScore
			}
			if limit != 0 {
				input.Limit = limit
			}

			result, err := ct.Engine.HybridQuery(cmd.Context(), input)
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}

	cmd.Flags().Float64Var(&minScore, "min-score", 0, "minimum fused score (default 0.5)")
	cmd.Flags().IntVar(&limit, "n", 0, "maximum number of results (default 10)")
	cmd.Flags().StringSliceVar(&kinds, "kind", nil, "restrict results to these kinds")
	cmd.Flags().BoolVar(&noEmbeddings, "no-embeddings", false, "skip the semantic phase even if an encoder is available")

	return cmd
}

func graphCmd(flags *cliFlags) *cobra.Command {
	var (
		depth int
		kinds []string
	)

	cmd := &cobra.Command{
		Use:   "graph <root>",
		Short: "Run the graph traversal query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ct, err := openContainer(flags)
			if err != nil {
				return err
			}

			input := query.DefaultGraphQueryInput(args[0])
			input.IncludeKinds = kindsFlag(kinds)
			if depth != 0 {
				input.Depth = depth
			}

			result, err := ct.Engine.GraphQuery(input)
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}

	cmd.Flags().IntVar(&depth, "depth", 0, "traversal depth (default 2)")
	cmd.Flags().StringSliceVar(&kinds, "kind", nil, "restrict related nodes to these kinds")

	return cmd
}

func impactCmd(flags *cliFlags) *cobra.Command {
	var depth int

	cmd := &cobra.Command{
		Use:   "impact <node>",
		Short: "Run the impact-analysis query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ct, err := openContainer(flags)
			if err != nil {
				return err
			}

			input := query.DefaultImpactQueryInput(args[0])
			if depth != 0 {
				input.Depth = depth
			}

			result, err := ct.Engine.ImpactQuery(input)
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}

	cmd.Flags().IntVar(&depth, "depth", 0, "reverse-traversal depth (default 3)")

	return cmd
}

func semanticCmd(flags *cliFlags) *cobra.Command {
	var (
		minScore float64
		limit    int
		kinds    []string
	)

	cmd := &cobra.Command{
		Use:   "semantic <query>",
		Short: "Run the semantic (embedding similarity) query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ct, err := openContainer(flags)
			if err != nil {
				return err
			}

			input := query.DefaultSemanticQueryInput(args[0])
			input.IncludeKinds = kindsFlag(kinds)
			if minScore != 0 {
				input.MinScore = minScore
			}
			if limit != 0 {
				input.Limit = limit
			}

			results, err := ct.Engine.SemanticQuery(cmd.Context(), input)
			if err != nil {
				return err
			}
			return printJSON(results)
		},
	}

	cmd.Flags().Float64Var(&minScore, "min-score", 0, "minimum cosine score (default 0.7)")
	cmd.Flags().IntVar(&limit, "n", 0, "maximum number of results (default 10)")
	cmd.Flags().StringSliceVar(&kinds, "kind", nil, "restrict results to these kinds")

	return cmd
}

func coverageCmd(flags *cliFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coverage <node>",
		Short: "Run the coverage query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ct, err := openContainer(flags)
			if err != nil {
				return err
			}

			result, err := ct.Engine.CoverageQuery(args[0])
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}

	return cmd
}

func violationsCmd(flags *cliFlags) *cobra.Command {
	var kinds []string

	cmd := &cobra.Command{
		Use:   "violations",
		Short: "Run the layer-violation query",
		RunE: func(cmd *cobra.Command, args []string) error {
			ct, err := openContainer(flags)
			if err != nil {
				return err
			}

			result := ct.Engine.ViolationsQuery(query.ViolationsQueryInput{
				IncludeKinds: kindsFlag(kinds),
			})
			return printJSON(result)
		},
	}

	cmd.Flags().StringSliceVar(&kinds, "kind", nil, "restrict violations to endpoints of these kinds")

	return cmd
}

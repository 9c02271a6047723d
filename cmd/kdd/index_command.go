package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/c360studio/kdd/container"
	"github.com/c360studio/kdd/domain"
	"github.com/c360studio/kdd/embed"
	"github.com/c360studio/kdd/indexer"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func indexCmd(flags *cliFlags) *cobra.Command {
	var (
		domainTag string
		level     string
	)

	cmd := &cobra.Command{
		Use:   "index <specsPath>",
		Short: "Index a specification tree into an artifact directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := resolveConfig(flags)
			cfg.Index.SpecsPath = args[0]
			if level != "" {
				cfg.Index.Level = level
			}

			var encoder embed.Encoder
			if cfg.Index.Level == string(domain.IndexLevelL2) || cfg.Index.Level == string(domain.IndexLevelL3) {
				encoder = embed.NewDeterministicEncoder("kdd-deterministic-v1", 32)
			}

			ct := container.New(cfg.Index.SpecsPath, cfg.Index.IndexPath, encoder, false)

			paths, err := indexer.Walk(cfg.Index.SpecsPath)
			if err != nil {
				return fmt.Errorf("walk specs path: %w", err)
			}

			var results []indexer.Result
			for _, path := range paths {
				result, err := ct.Index.IndexFile(cmd.Context(), path)
				if err != nil {
					return fmt.Errorf("index %s: %w", path, err)
				}
				if result.Warning != "" {
					slog.Warn("document found outside expected path", "path", path, "warning", result.Warning)
				}
				if !result.Success {
					slog.Debug("skipped document", "path", path, "reason", result.SkippedReason)
				}
				results = append(results, result)
			}

			stats := domain.Stats{}
			for _, r := range results {
				if !r.Success {
					continue
				}
				stats.Nodes++
				stats.Edges += r.EdgeCount
				stats.Embeddings += r.EmbeddingCount
			}

			manifest := domain.Manifest{
				FormatVersion: "1",
				KDDVersion:    version,
				IndexedAt:     time.Now().UTC(),
				Indexer:       uuid.NewString(),
				Structure:     "kdd-v1",
				IndexLevel:    ct.IndexLevel,
				Stats:         stats,
			}
			if domainTag != "" {
				manifest.Domains = []string{domainTag}
			}
			if encoder != nil {
				manifest.EmbeddingModel = encoder.Name()
			}

			if err := ct.Artifact.WriteManifest(manifest); err != nil {
				return fmt.Errorf("write manifest: %w", err)
			}

			return printJSON(map[string]any{
				"files_walked": len(paths),
				"stats":        stats,
				"index_level":  ct.IndexLevel,
				"results":      results,
			})
		},
	}

	cmd.Flags().StringVar(&domainTag, "domain", "", "domain tag recorded in the manifest")
	cmd.Flags().StringVar(&level, "level", "", "index level (L1 or L2); without it no encoder is wired in and the index is L1")

	return cmd
}

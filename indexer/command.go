// Package indexer implements the per-document index command (spec.md
// §4.8): read, route, extract, write artifact, and — when an encoder is
// wired in — chunk, embed, and write embeddings.
package indexer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/c360studio/kdd/artifact"
	"github.com/c360studio/kdd/chunk"
	"github.com/c360studio/kdd/domain"
	"github.com/c360studio/kdd/embed"
	"github.com/c360studio/kdd/extract"
	"github.com/c360studio/kdd/parser"
)

// Result is the outcome of indexing one document (spec.md §4.8 step 11).
type Result struct {
	Success        bool
	NodeID         string
	EdgeCount      int
	EmbeddingCount int
	SkippedReason  string
	Warning        string
}

// Command runs the per-document index pipeline against a fixed artifact
// destination.
type Command struct {
	Registry    *extract.Registry
	Writer      *artifact.Store
	Encoder     embed.Encoder
	IndexLevel  domain.IndexLevel
	ChunkConfig chunk.Config
	Logger      *slog.Logger
}

// NewCommand returns a Command with the chunker defaults and a
// slog.Default fallback logger.
func NewCommand(registry *extract.Registry, writer *artifact.Store) *Command {
	return &Command{
		Registry:    registry,
		Writer:      writer,
		IndexLevel:  domain.IndexLevelL1,
		ChunkConfig: chunk.DefaultConfig(),
		Logger:      slog.Default(),
	}
}

func (c *Command) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// IndexFile runs the full pipeline against one source file.
func (c *Command) IndexFile(ctx context.Context, path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{SkippedReason: "unreadable file: " + err.Error()}, nil
	}

	doc := parser.Parse(string(data))

	route := domain.RouteKind(doc.FrontMatter, path)
	if !route.Found {
		c.logger().Debug("skipping document with no recognized kind", "path", path)
		return Result{SkippedReason: "missing or unrecognized front-matter kind"}, nil
	}

	ext, ok := c.Registry.For(route.Kind)
	if !ok {
		return Result{SkippedReason: fmt.Sprintf("no extractor registered for kind %q", route.Kind)}, nil
	}

	layer, _ := domain.DetectLayer(path)
	documentID := resolveDocumentID(doc.FrontMatter, path)
	hash := sha256Hex(data)

	edoc := extract.NewDocument(path, hash, documentID, route.Kind, layer, doc.FrontMatter, doc.Sections, doc.Body)

	node := ext.ExtractNode(edoc)
	edges := ext.ExtractEdges(edoc)

	if err := c.Writer.WriteNode(node); err != nil {
		return Result{}, fmt.Errorf("write node %s: %w", node.ID, err)
	}
	if err := c.Writer.AppendEdges(edges); err != nil {
		return Result{}, fmt.Errorf("append edges for %s: %w", node.ID, err)
	}

	result := Result{Success: true, NodeID: node.ID, EdgeCount: len(edges), Warning: route.Warning}

	if route.Warning != "" {
		c.logger().Warn("document found outside expected path", "path", path, "warning", route.Warning)
	}

	if c.shouldEmbed() {
		count, err := c.embedDocument(ctx, edoc, node)
		if err != nil {
			return result, fmt.Errorf("embed %s: %w", node.ID, err)
		}
		result.EmbeddingCount = count
	}

	return result, nil
}

func (c *Command) shouldEmbed() bool {
	if c.Encoder == nil {
		return false
	}
	return c.IndexLevel == domain.IndexLevelL2 || c.IndexLevel == domain.IndexLevelL3
}

func (c *Command) embedDocument(ctx context.Context, edoc extract.Document, node domain.GraphNode) (int, error) {
	chunks := chunk.Document(edoc, node.Title(), c.ChunkConfig)
	if len(chunks) == 0 {
		return 0, nil
	}

	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Context
	}

	vectors, err := c.Encoder.Encode(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("encode chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return 0, fmt.Errorf("encoder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	now := time.Now()
	embeddings := make([]domain.Embedding, len(chunks))
	for i, ch := range chunks {
		embeddings[i] = domain.Embedding{
			ID:          ch.ID,
			DocumentID:  ch.DocumentID,
			Kind:        edoc.Kind,
			Section:     ch.Section,
			ChunkIndex:  ch.Index,
			Text:        ch.Content,
			Context:     ch.Context,
			Vector:      vectors[i],
			Model:       c.Encoder.Name(),
			Dimensions:  len(vectors[i]),
			TextHash:    sha256Hex([]byte(ch.Content)),
			GeneratedAt: now,
		}
	}

	if err := c.Writer.WriteEmbeddings(edoc.Kind, edoc.DocumentID, embeddings); err != nil {
		return 0, fmt.Errorf("write embeddings: %w", err)
	}
	return len(embeddings), nil
}

// resolveDocumentID uses front_matter.id if present, otherwise the source
// file's stem (spec.md §4.8 step 8).
func resolveDocumentID(frontMatter map[string]any, path string) string {
	if id, ok := frontMatter["id"].(string); ok && id != "" {
		return id
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Package container wires all infrastructure adapters and application
// components into a single process-singleton bundle, grounded on
// original_source/src/kdd/container.py's create_container: probe for an
// optional embedding backend, degrade to L1 gracefully when one is not
// available, and hand back one object the CLI and, eventually, a
// tool-server front end can share.
package container

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/c360studio/kdd/artifact"
	"github.com/c360studio/kdd/domain"
	"github.com/c360studio/kdd/embed"
	"github.com/c360studio/kdd/extract"
	"github.com/c360studio/kdd/graphstore"
	"github.com/c360studio/kdd/indexer"
	"github.com/c360studio/kdd/query"
	"github.com/c360studio/kdd/vectorstore"
)

// ErrIndexUnavailable is returned by EnsureLoaded when the artifact tree
// at IndexPath has never been written (no manifest file yet).
var ErrIndexUnavailable = errors.New("container: index unavailable, run the index command first")

// Container holds every wired dependency for one KDD session: the
// artifact tree reader/writer, the in-memory graph and vector stores
// loaded from it, the extractor registry, the index command, and the
// query engine built over the same stores.
type Container struct {
	SpecsPath  string
	IndexPath  string
	IndexLevel domain.IndexLevel

	Artifact *artifact.Store
	Graph    *graphstore.Store
	Vectors  *vectorstore.Store
	Encoder  embed.Encoder
	Registry *extract.Registry

	Index  *indexer.Command
	Engine *query.Engine

	Logger *slog.Logger
}

// New assembles a Container rooted at specsPath/indexPath. encoder may be
// nil, in which case the container degrades to L1 (graph only), mirroring
// the Python reference's try/except around its embedding backend.
// agentAPIAvailable selects L3 when an encoder is also present, per
// domain.DetectIndexLevel.
func New(specsPath, indexPath string, encoder embed.Encoder, agentAPIAvailable bool) *Container {
	logger := slog.Default()

	level := domain.DetectIndexLevel(encoder != nil, agentAPIAvailable)
	if encoder == nil {
		logger.Info("L2 not available: no encoder supplied, running at L1")
	}

	registry := extract.NewDefaultRegistry()
	store := artifact.New(indexPath)
	graph := graphstore.New()
	vectors := vectorstore.New()

	index := indexer.NewCommand(registry, store)
	index.Encoder = encoder
	index.IndexLevel = level
	index.Logger = logger

	engine := query.NewEngine(graph)
	if encoder != nil {
		engine.Vectors = vectors
		engine.Encoder = encoder
	}

	return &Container{
		SpecsPath:  specsPath,
		IndexPath:  indexPath,
		IndexLevel: level,
		Artifact:   store,
		Graph:      graph,
		Vectors:    vectors,
		Encoder:    encoder,
		Registry:   registry,
		Index:      index,
		Engine:     engine,
		Logger:     logger,
	}
}

// EnsureLoaded reads the artifact tree into the graph and vector stores,
// replacing whatever was loaded before. It fails with ErrIndexUnavailable
// if the index has never been written (no manifest on disk), mirroring
// the reference's ensure_loaded/IndexLoader.load.
func (c *Container) EnsureLoaded() error {
	manifest, ok, err := c.Artifact.ReadManifest()
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}
	if !ok {
		return ErrIndexUnavailable
	}

	nodes, err := c.Artifact.ReadNodes()
	if err != nil {
		return fmt.Errorf("read nodes: %w", err)
	}
	edges, err := c.Artifact.ReadEdges()
	if err != nil {
		return fmt.Errorf("read edges: %w", err)
	}
	c.Graph.Load(nodes, edges)

	if manifest.IndexLevel == domain.IndexLevelL2 || manifest.IndexLevel == domain.IndexLevelL3 {
		embeddings, err := c.Artifact.ReadEmbeddings()
		if err != nil {
			return fmt.Errorf("read embeddings: %w", err)
		}
		c.Vectors.Load(embeddings)
	}

	c.Logger.Info("index loaded", "nodes", len(nodes), "edges", len(edges), "level", manifest.IndexLevel)
	return nil
}

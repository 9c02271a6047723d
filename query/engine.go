// Package query implements the hybrid/graph/semantic/impact/coverage/
// layer-violation query engine of spec.md §4.9. Every query is a pure
// function over a frozen graphstore.Store plus, for the semantic and
// hybrid paths, a single asynchronous call to an embed.Encoder.
package query

import (
	"context"
	"sort"
	"strings"

	"github.com/c360studio/kdd/domain"
	"github.com/c360studio/kdd/embed"
	"github.com/c360studio/kdd/graphstore"
	"github.com/c360studio/kdd/vectorstore"
)

// Engine answers queries against a fixed graph store and, optionally, a
// vector store and encoder. All three are treated as read-only during
// serving; a reindex replaces the Engine's Graph/Vectors wholesale rather
// than mutating them.
type Engine struct {
	Graph   *graphstore.Store
	Vectors *vectorstore.Store
	Encoder embed.Encoder
}

// NewEngine returns an Engine over graph with no semantic capability
// wired in; set Vectors and Encoder to enable the semantic and hybrid
// phases.
func NewEngine(graph *graphstore.Store) *Engine {
	return &Engine{Graph: graph}
}

func (e *Engine) hasSemantic() bool {
	return e.Vectors != nil && e.Encoder != nil
}

// kindSet builds a membership set from an includeKinds filter; a nil or
// empty slice means "no filter" (every kind passes).
func kindSet(kinds []domain.Kind) map[domain.Kind]bool {
	if len(kinds) == 0 {
		return nil
	}
	set := make(map[domain.Kind]bool, len(kinds))
	for _, k := range kinds {
		set[k] = true
	}
	return set
}

func layerSet(layers []domain.Layer) map[domain.Layer]bool {
	if len(layers) == 0 {
		return nil
	}
	set := make(map[domain.Layer]bool, len(layers))
	for _, l := range layers {
		set[l] = true
	}
	return set
}

func passesFilter(node domain.GraphNode, kinds map[domain.Kind]bool, layers map[domain.Layer]bool) bool {
	if kinds != nil && !kinds[node.Kind] {
		return false
	}
	if layers != nil && !layers[node.Layer] {
		return false
	}
	return true
}

// resolveEmbeddingID maps an embedding ID to a node, per spec.md §4.9.2:
// strip the chunk suffix by taking everything before the first colon,
// then try every known kind prefix until one resolves to an existing
// node.
func resolveEmbeddingID(graph *graphstore.Store, embeddingID string) (domain.GraphNode, bool) {
	documentID := embeddingID
	if i := strings.IndexByte(embeddingID, ':'); i >= 0 {
		documentID = embeddingID[:i]
	}
	for _, k := range domain.Kinds() {
		candidate := domain.Prefix(k) + ":" + documentID
		if node, ok := graph.GetNode(candidate); ok {
			return node, true
		}
	}
	return domain.GraphNode{}, false
}

// snippet builds the fixed "[<kind>] <title or id>" hybrid-result label.
func snippet(node domain.GraphNode) string {
	return "[" + string(node.Kind) + "] " + node.Title()
}

// GraphQueryInput is the input to GraphQuery; zero-value Depth is treated
// as the documented default of 2, and RespectLayers must be set
// explicitly (there is no way to distinguish "false" from "unset" on a
// bool, so DefaultGraphQueryInput is the documented-default constructor).
type GraphQueryInput struct {
	Root          string
	Depth         int
	EdgeTypes     []domain.EdgeType
	IncludeKinds  []domain.Kind
	RespectLayers bool
}

// DefaultGraphQueryInput returns the spec.md §4.9.1 defaults for root.
func DefaultGraphQueryInput(root string) GraphQueryInput {
	return GraphQueryInput{Root: root, Depth: 2, RespectLayers: true}
}

// ScoredNode is one related node returned by GraphQuery, scored by
// inverse undirected-BFS distance from the center.
type ScoredNode struct {
	Node     domain.GraphNode
	Distance int
	Score    float64
}

// GraphQueryResult is the result of GraphQuery.
type GraphQueryResult struct {
	Center       domain.GraphNode
	Related      []ScoredNode
	Edges        []domain.GraphEdge
	TotalRelated int
	TotalEdges   int
}

// GraphQuery implements spec.md §4.9.1.
func (e *Engine) GraphQuery(input GraphQueryInput) (GraphQueryResult, error) {
	center, ok := e.Graph.GetNode(input.Root)
	if !ok {
		return GraphQueryResult{}, ErrNodeNotFound
	}

	depth := input.Depth
	if depth == 0 {
		depth = 2
	}

	nodes, edges := e.Graph.Traverse(input.Root, depth, input.EdgeTypes, input.RespectLayers)

	distances := undirectedDistances(input.Root, edges)

	kinds := kindSet(input.IncludeKinds)
	var related []ScoredNode
	for _, n := range nodes {
		if n.ID == input.Root {
			continue
		}
		if kinds != nil && !kinds[n.Kind] {
			continue
		}
		d, ok := distances[n.ID]
		if !ok {
			d = depth + 1
		}
		related = append(related, ScoredNode{Node: n, Distance: d, Score: 1.0 / float64(1+d)})
	}

	sort.SliceStable(related, func(i, j int) bool {
		return related[i].Score > related[j].Score
	})

	return GraphQueryResult{
		Center:       center,
		Related:      related,
		Edges:        edges,
		TotalRelated: len(related),
		TotalEdges:   len(edges),
	}, nil
}

// undirectedDistances runs BFS from root over the undirected adjacency
// formed by edges, returning the hop distance to every reachable node
// other than root.
func undirectedDistances(root string, edges []domain.GraphEdge) map[string]int {
	adj := make(map[string][]string)
	for _, e := range edges {
		adj[e.From] = append(adj[e.From], e.To)
		adj[e.To] = append(adj[e.To], e.From)
	}

	dist := map[string]int{root: 0}
	queue := []string{root}
	for i := 0; i < len(queue); i++ {
		cur := queue[i]
		for _, next := range adj[cur] {
			if _, seen := dist[next]; seen {
				continue
			}
			dist[next] = dist[cur] + 1
			queue = append(queue, next)
		}
	}
	delete(dist, root)
	return dist
}

// SemanticQueryInput is the input to SemanticQuery.
type SemanticQueryInput struct {
	QueryText     string
	IncludeKinds  []domain.Kind
	IncludeLayers []domain.Layer
	MinScore      float64
	Limit         int
}

// DefaultSemanticQueryInput returns the spec.md §4.9.2 defaults for text.
func DefaultSemanticQueryInput(text string) SemanticQueryInput {
	return SemanticQueryInput{QueryText: text, MinScore: 0.7, Limit: 10}
}

// SemanticResult is one scored hit from SemanticQuery.
type SemanticResult struct {
	Node  domain.GraphNode
	Score float64
}

// SemanticQuery implements spec.md §4.9.2. If no vector store or encoder
// is wired in, it returns an empty result with no error: callers needing
// to distinguish "no results" from "no embeddings" should check
// e.hasSemantic() or use HybridQuery, which reports NO_EMBEDDINGS as a
// warning.
func (e *Engine) SemanticQuery(ctx context.Context, input SemanticQueryInput) ([]SemanticResult, error) {
	text := strings.TrimSpace(input.QueryText)
	if len(text) < 3 {
		return nil, ErrQueryTooShort
	}

	if !e.hasSemantic() {
		return nil, nil
	}

	limit := input.Limit
	if limit == 0 {
		limit = 10
	}
	minScore := input.MinScore
	if minScore == 0 {
		minScore = 0.7
	}

	vectors, err := e.Encoder.Encode(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, nil
	}

	hits := e.Vectors.Search(vectors[0], 3*limit, minScore)

	kinds := kindSet(input.IncludeKinds)
	layers := layerSet(input.IncludeLayers)

	seen := make(map[string]bool)
	var results []SemanticResult
	for _, hit := range hits {
		node, ok := resolveEmbeddingID(e.Graph, hit.ID)
		if !ok || seen[node.ID] {
			continue
		}
		if !passesFilter(node, kinds, layers) {
			continue
		}
		seen[node.ID] = true
		results = append(results, SemanticResult{Node: node, Score: hit.Score})
		if len(results) >= limit {
			break
		}
	}

	return results, nil
}

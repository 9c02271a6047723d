// Package graphstore implements the in-memory directed multigraph (spec.md
// §4.6): node lookup, incoming/outgoing edge iteration, bidirectional bounded
// BFS, reverse bounded BFS with path recovery, text scan, and the
// layer-violation filter. Stores are frozen after load; a reindex rebuilds
// and swaps a fresh instance rather than mutating one in place.
package graphstore

import (
	"fmt"
	"strings"
	"sync"

	"github.com/c360studio/kdd/domain"
)

// Store is a directed multigraph keyed by node ID, safe for concurrent reads
// while serving. It is rebuilt wholesale on every Load.
type Store struct {
	mu sync.RWMutex

	nodes  map[string]domain.GraphNode
	order  []string
	edges  []domain.GraphEdge
	outIdx map[string][]int
	inIdx  map[string][]int
}

// New returns an empty store.
func New() *Store {
	return &Store{
		nodes:  make(map[string]domain.GraphNode),
		outIdx: make(map[string][]int),
		inIdx:  make(map[string][]int),
	}
}

// Load wipes the store and inserts nodes and edges. Edges whose endpoints
// are not present among nodes are silently dropped, as are duplicate edges
// sharing the same (from, to, type) composite key.
func (s *Store) Load(nodes []domain.GraphNode, edges []domain.GraphEdge) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nodes = make(map[string]domain.GraphNode, len(nodes))
	s.order = make([]string, 0, len(nodes))
	for _, n := range nodes {
		if _, exists := s.nodes[n.ID]; !exists {
			s.order = append(s.order, n.ID)
		}
		s.nodes[n.ID] = n
	}

	s.edges = make([]domain.GraphEdge, 0, len(edges))
	s.outIdx = make(map[string][]int)
	s.inIdx = make(map[string][]int)

	seen := make(map[string]bool, len(edges))
	for _, e := range edges {
		if _, ok := s.nodes[e.From]; !ok {
			continue
		}
		if _, ok := s.nodes[e.To]; !ok {
			continue
		}
		key := e.Key()
		if seen[key] {
			continue
		}
		seen[key] = true

		idx := len(s.edges)
		s.edges = append(s.edges, e)
		s.outIdx[e.From] = append(s.outIdx[e.From], idx)
		s.inIdx[e.To] = append(s.inIdx[e.To], idx)
	}
}

// GetNode returns the node for id, if present.
func (s *Store) GetNode(id string) (domain.GraphNode, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[id]
	return n, ok
}

// HasNode reports whether id is present.
func (s *Store) HasNode(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.nodes[id]
	return ok
}

// AllNodes returns every node, in load order.
func (s *Store) AllNodes() []domain.GraphNode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.GraphNode, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.nodes[id])
	}
	return out
}

// AllEdges returns every edge, in load order.
func (s *Store) AllEdges() []domain.GraphEdge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.GraphEdge, len(s.edges))
	copy(out, s.edges)
	return out
}

// NodeCount returns the number of loaded nodes.
func (s *Store) NodeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// EdgeCount returns the number of loaded edges.
func (s *Store) EdgeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.edges)
}

// OutgoingEdges returns every edge whose From equals nodeID.
func (s *Store) OutgoingEdges(nodeID string) []domain.GraphEdge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.edgesAt(s.outIdx[nodeID])
}

// IncomingEdges returns every edge whose To equals nodeID.
func (s *Store) IncomingEdges(nodeID string) []domain.GraphEdge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.edgesAt(s.inIdx[nodeID])
}

func (s *Store) edgesAt(indices []int) []domain.GraphEdge {
	out := make([]domain.GraphEdge, 0, len(indices))
	for _, i := range indices {
		out = append(out, s.edges[i])
	}
	return out
}

// TextSearch performs a case-insensitive linear scan for query. When fields
// is non-empty, only the named indexed-field keys are searched; otherwise
// every indexed field is searched. The node ID and every alias are always
// searched regardless of fields.
func (s *Store) TextSearch(query string, fields ...string) []domain.GraphNode {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(query)
	var out []domain.GraphNode
	for _, id := range s.order {
		node := s.nodes[id]
		if nodeMatches(node, q, fields) {
			out = append(out, node)
		}
	}
	return out
}

func nodeMatches(node domain.GraphNode, q string, fields []string) bool {
	if strings.Contains(strings.ToLower(node.ID), q) {
		return true
	}
	for _, a := range node.Aliases {
		if strings.Contains(strings.ToLower(a), q) {
			return true
		}
	}

	if len(fields) > 0 {
		for _, f := range fields {
			if v, ok := node.Indexed[f]; ok && strings.Contains(strings.ToLower(stringify(v)), q) {
				return true
			}
		}
		return false
	}

	for _, v := range node.Indexed {
		if strings.Contains(strings.ToLower(stringify(v)), q) {
			return true
		}
	}
	return false
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// Traverse performs a bidirectional breadth-first exploration starting from
// root at distance 0, following both outgoing and incoming edges up to
// depth inclusive. When edgeTypes is non-empty, edges whose type is absent
// from it are skipped entirely; when respectLayers is true, edges flagged
// as layer-violating are skipped entirely. It returns the visited nodes in
// discovery order (root first) and the matching edges considered, deduped
// by composite key. If root is unknown, both are empty.
func (s *Store) Traverse(root string, depth int, edgeTypes []domain.EdgeType, respectLayers bool) ([]domain.GraphNode, []domain.GraphEdge) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.nodes[root]; !ok {
		return nil, nil
	}

	typeFilter := toEdgeTypeSet(edgeTypes)

	dist := map[string]int{root: 0}
	order := []string{root}
	queue := []string{root}

	var edgeOrder []string
	matchedEdges := make(map[string]domain.GraphEdge)

	consider := func(e domain.GraphEdge, other string, d int) {
		if len(typeFilter) > 0 && !typeFilter[e.Type] {
			return
		}
		if respectLayers && e.LayerViolation {
			return
		}
		key := e.Key()
		if _, seen := matchedEdges[key]; !seen {
			matchedEdges[key] = e
			edgeOrder = append(edgeOrder, key)
		}
		if _, seen := dist[other]; !seen {
			if _, ok := s.nodes[other]; ok {
				dist[other] = d
				order = append(order, other)
				queue = append(queue, other)
			}
		}
	}

	for i := 0; i < len(queue); i++ {
		cur := queue[i]
		d := dist[cur]
		if d >= depth {
			continue
		}
		for _, idx := range s.outIdx[cur] {
			e := s.edges[idx]
			consider(e, e.To, d+1)
		}
		for _, idx := range s.inIdx[cur] {
			e := s.edges[idx]
			consider(e, e.From, d+1)
		}
	}

	nodes := make([]domain.GraphNode, 0, len(order))
	for _, id := range order {
		nodes = append(nodes, s.nodes[id])
	}
	edges := make([]domain.GraphEdge, 0, len(edgeOrder))
	for _, key := range edgeOrder {
		edges = append(edges, matchedEdges[key])
	}
	return nodes, edges
}

// ReverseResult is one predecessor discovered by ReverseTraverse, along with
// the edge path walked from root to reach it.
type ReverseResult struct {
	Node domain.GraphNode
	Path []domain.GraphEdge
}

// ReverseTraverse follows only incoming edges from root, up to depth
// inclusive, and returns every predecessor other than root together with
// the reversed edge path taken to reach it.
func (s *Store) ReverseTraverse(root string, depth int) []ReverseResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.nodes[root]; !ok {
		return nil
	}

	dist := map[string]int{root: 0}
	paths := map[string][]domain.GraphEdge{root: nil}
	queue := []string{root}
	var order []string

	for i := 0; i < len(queue); i++ {
		cur := queue[i]
		d := dist[cur]
		if d >= depth {
			continue
		}
		for _, idx := range s.inIdx[cur] {
			e := s.edges[idx]
			pred := e.From
			if _, seen := dist[pred]; seen {
				continue
			}
			if _, ok := s.nodes[pred]; !ok {
				continue
			}
			dist[pred] = d + 1
			path := make([]domain.GraphEdge, len(paths[cur])+1)
			copy(path, paths[cur])
			path[len(path)-1] = e
			paths[pred] = path
			queue = append(queue, pred)
			order = append(order, pred)
		}
	}

	out := make([]ReverseResult, 0, len(order))
	for _, id := range order {
		out = append(out, ReverseResult{Node: s.nodes[id], Path: paths[id]})
	}
	return out
}

// FindViolations returns every edge flagged as layer-violating.
func (s *Store) FindViolations() []domain.GraphEdge {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.GraphEdge
	for _, e := range s.edges {
		if e.LayerViolation {
			out = append(out, e)
		}
	}
	return out
}

func toEdgeTypeSet(types []domain.EdgeType) map[domain.EdgeType]bool {
	if len(types) == 0 {
		return nil
	}
	set := make(map[domain.EdgeType]bool, len(types))
	for _, t := range types {
		set[t] = true
	}
	return set
}

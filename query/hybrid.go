package query

import (
	"context"
	"sort"
	"strings"

	"github.com/c360studio/kdd/domain"
)

// HybridQueryInput is the input to HybridQuery.
type HybridQueryInput struct {
	QueryText     string
	ExpandGraph   bool
	Depth         int
	IncludeKinds  []domain.Kind
	IncludeLayers []domain.Layer
	RespectLayers bool
	MinScore      float64
	Limit         int
	MaxTokens     int
}

// DefaultHybridQueryInput returns the spec.md §4.9.3 defaults for text.
func DefaultHybridQueryInput(text string) HybridQueryInput {
	return HybridQueryInput{
		QueryText:     text,
		ExpandGraph:   true,
		Depth:         2,
		RespectLayers: true,
		MinScore:      0.5,
		Limit:         10,
		MaxTokens:     8000,
	}
}

// HybridResult is one fused, scored result from HybridQuery.
type HybridResult struct {
	Node        domain.GraphNode
	Score       float64
	Snippet     string
	MatchSource string
}

// HybridQueryResult is the result of HybridQuery.
type HybridQueryResult struct {
	Results  []HybridResult
	Edges    []domain.GraphEdge
	Warnings []string
}

// evidence accumulates the per-source scores for one candidate node.
type evidence struct {
	semantic float64
	lexical  float64
	graph    float64
}

func (ev evidence) sources() int {
	n := 0
	if ev.semantic > 0 {
		n++
	}
	if ev.lexical > 0 {
		n++
	}
	if ev.graph > 0 {
		n++
	}
	return n
}

// HybridQuery implements spec.md §4.9.3: the primary fused query,
// combining semantic similarity, lexical substring matches and graph
// proximity under a fixed fusion formula.
func (e *Engine) HybridQuery(ctx context.Context, input HybridQueryInput) (HybridQueryResult, error) {
	text := strings.TrimSpace(input.QueryText)
	if len(text) < 3 {
		return HybridQueryResult{}, ErrQueryTooShort
	}

	limit := input.Limit
	if limit == 0 {
		limit = 10
	}
	depth := input.Depth
	if depth == 0 {
		depth = 2
	}
	minScore := input.MinScore
	maxTokens := input.MaxTokens
	if maxTokens == 0 {
		maxTokens = 8000
	}

	kinds := kindSet(input.IncludeKinds)
	layers := layerSet(input.IncludeLayers)

	byID := make(map[string]*evidence)
	order := make([]string, 0)
	touch := func(id string) *evidence {
		ev, ok := byID[id]
		if !ok {
			ev = &evidence{}
			byID[id] = ev
			order = append(order, id)
		}
		return ev
	}

	var warnings []string

	// 1. Semantic phase.
	if e.hasSemantic() {
		vectors, err := e.Encoder.Encode(ctx, []string{text})
		if err != nil {
			return HybridQueryResult{}, err
		}
		if len(vectors) > 0 {
			hits := e.Vectors.Search(vectors[0], 3*limit, minScore*0.8)
			for _, hit := range hits {
				node, ok := resolveEmbeddingID(e.Graph, hit.ID)
				if !ok {
					continue
				}
				ev := touch(node.ID)
				if hit.Score > ev.semantic {
					ev.semantic = hit.Score
				}
			}
		}
	} else {
		warnings = append(warnings, "NO_EMBEDDINGS")
	}

	// 2. Lexical phase.
	for _, node := range e.Graph.TextSearch(text) {
		touch(node.ID).lexical = 0.5
	}

	// 3. Graph expansion.
	var expansionEdges []domain.GraphEdge
	edgeSeen := make(map[string]bool)
	if input.ExpandGraph {
		seeds := append([]string{}, order...)
		for _, seed := range seeds {
			if !e.Graph.HasNode(seed) {
				continue
			}
			nodes, edges := e.Graph.Traverse(seed, depth, nil, input.RespectLayers)
			for _, edge := range edges {
				if !edgeSeen[edge.Key()] {
					edgeSeen[edge.Key()] = true
					expansionEdges = append(expansionEdges, edge)
				}
			}
			for _, node := range nodes {
				if node.ID == seed {
					continue
				}
				if !passesFilter(node, kinds, layers) {
					continue
				}
				touch(node.ID).graph = 0.5
			}
		}
	}

	// 4. Fusion.
	var fused []HybridResult
	for _, id := range order {
		node, ok := e.Graph.GetNode(id)
		if !ok {
			continue
		}
		if !passesFilter(node, kinds, layers) {
			continue
		}

		ev := byID[id]
		sources := ev.sources()
		graphInd, lexicalInd := 0.0, 0.0
		if ev.graph > 0 {
			graphInd = 1
		}
		if ev.lexical > 0 {
			lexicalInd = 1
		}
		raw := 0.6*ev.semantic + 0.3*graphInd + 0.1*lexicalInd + 0.1*float64(max(0, sources-1))
		score := raw / 1.2
		if score > 1.0 {
			score = 1.0
		}
		if score < minScore {
			continue
		}

		matchSource := "lexical"
		switch {
		case ev.semantic > 0 && ev.graph > 0:
			matchSource = "fusion"
		case ev.semantic > 0:
			matchSource = "semantic"
		case ev.graph > 0:
			matchSource = "graph"
		}

		fused = append(fused, HybridResult{
			Node:        node,
			Score:       score,
			Snippet:     snippet(node),
			MatchSource: matchSource,
		})
	}

	sort.SliceStable(fused, func(i, j int) bool {
		return fused[i].Score > fused[j].Score
	})

	// 5. Ordering and token budget.
	var final []HybridResult
	tokens := 0
	for i, r := range fused {
		if len(final) >= limit {
			break
		}
		cost := max(1, len(r.Snippet)/4)
		if i > 0 && tokens+cost > maxTokens {
			break
		}
		final = append(final, r)
		tokens += cost
	}

	return HybridQueryResult{
		Results:  final,
		Edges:    expansionEdges,
		Warnings: warnings,
	}, nil
}

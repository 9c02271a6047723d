package query

import (
	"fmt"

	"github.com/c360studio/kdd/domain"
)

// ImpactQueryInput is the input to ImpactQuery.
type ImpactQueryInput struct {
	NodeID     string
	ChangeType string
	Depth      int
}

// DefaultImpactQueryInput returns the spec.md §4.9.4 defaults for nodeID.
func DefaultImpactQueryInput(nodeID string) ImpactQueryInput {
	return ImpactQueryInput{NodeID: nodeID, ChangeType: "modify_attribute", Depth: 3}
}

// DirectEffect is one predecessor of the analyzed node, reached by a
// single incoming edge.
type DirectEffect struct {
	Node              domain.GraphNode
	EdgeType          domain.EdgeType
	ImpactDescription string
}

// TransitiveEffect is one predecessor reached through more than one hop.
// Path is the sequence of node IDs along the reverse path, root first;
// EdgeTypes holds the edges walked, in the same order.
type TransitiveEffect struct {
	Node      domain.GraphNode
	Path      []string
	EdgeTypes []domain.EdgeType
}

// ScenarioToRerun is a BDD feature (the VALIDATES edge's source) that
// should be rerun because something it validates is affected.
type ScenarioToRerun struct {
	Node   domain.GraphNode
	Reason string
}

// ImpactQueryResult is the result of ImpactQuery.
type ImpactQueryResult struct {
	Root                 domain.GraphNode
	ChangeType           string
	DirectlyAffected     []DirectEffect
	TransitivelyAffected []TransitiveEffect
	ScenariosToRerun     []ScenarioToRerun
	TotalDirectly        int
	TotalTransitively    int
}

// ImpactQuery implements spec.md §4.9.4: what breaks if this node
// changes, out to depth hops of predecessors.
func (e *Engine) ImpactQuery(input ImpactQueryInput) (ImpactQueryResult, error) {
	root, ok := e.Graph.GetNode(input.NodeID)
	if !ok {
		return ImpactQueryResult{}, ErrNodeNotFound
	}

	changeType := input.ChangeType
	if changeType == "" {
		changeType = "modify_attribute"
	}
	depth := input.Depth
	if depth == 0 {
		depth = 3
	}

	directIDs := make(map[string]bool)
	var direct []DirectEffect
	for _, edge := range e.Graph.IncomingEdges(input.NodeID) {
		node, ok := e.Graph.GetNode(edge.From)
		if !ok {
			continue
		}
		direct = append(direct, DirectEffect{
			Node:              node,
			EdgeType:          edge.Type,
			ImpactDescription: domain.ImpactDescription(edge.Type),
		})
		directIDs[edge.From] = true
	}

	affected := map[string]bool{input.NodeID: true}
	for id := range directIDs {
		affected[id] = true
	}

	var transitive []TransitiveEffect
	if depth > 1 {
		for _, r := range e.Graph.ReverseTraverse(input.NodeID, depth) {
			if directIDs[r.Node.ID] {
				continue
			}
			path := []string{input.NodeID}
			edgeTypes := make([]domain.EdgeType, 0, len(r.Path))
			for _, edge := range r.Path {
				path = append(path, edge.From)
				edgeTypes = append(edgeTypes, edge.Type)
			}
			transitive = append(transitive, TransitiveEffect{Node: r.Node, Path: path, EdgeTypes: edgeTypes})
			affected[r.Node.ID] = true
		}
	}

	var scenarios []ScenarioToRerun
	seenSource := make(map[string]bool)
	for _, edge := range e.Graph.AllEdges() {
		if edge.Type != domain.EdgeValidates {
			continue
		}
		if !affected[edge.To] {
			continue
		}
		if seenSource[edge.From] {
			continue
		}
		seenSource[edge.From] = true

		source, ok := e.Graph.GetNode(edge.From)
		if !ok {
			continue
		}
		targetLabel := edge.To
		if target, ok := e.Graph.GetNode(edge.To); ok {
			targetLabel = target.Title()
		}
		scenarios = append(scenarios, ScenarioToRerun{
			Node:   source,
			Reason: fmt.Sprintf("Validates %s which is affected", targetLabel),
		})
	}

	return ImpactQueryResult{
		Root:                 root,
		ChangeType:           changeType,
		DirectlyAffected:     direct,
		TransitivelyAffected: transitive,
		ScenariosToRerun:     scenarios,
		TotalDirectly:        len(direct),
		TotalTransitively:    len(transitive),
	}, nil
}

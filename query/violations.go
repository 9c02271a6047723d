package query

import (
	"math"

	"github.com/c360studio/kdd/domain"
)

// ViolationRecord is one layer-violating edge, materialized with both
// endpoints' layers for display.
type ViolationRecord struct {
	From      string
	To        string
	FromLayer domain.Layer
	ToLayer   domain.Layer
	EdgeType  domain.EdgeType
}

// ViolationsQueryInput is the input to ViolationsQuery; a nil/empty
// filter means every violation passes.
type ViolationsQueryInput struct {
	IncludeKinds  []domain.Kind
	IncludeLayers []domain.Layer
}

// ViolationsQueryResult is the result of ViolationsQuery.
type ViolationsQueryResult struct {
	Violations  []ViolationRecord
	RatePercent float64
	TotalEdges  int
}

// ViolationsQuery implements spec.md §4.9.6.
func (e *Engine) ViolationsQuery(input ViolationsQueryInput) ViolationsQueryResult {
	kinds := kindSet(input.IncludeKinds)
	layers := layerSet(input.IncludeLayers)

	violations := make([]ViolationRecord, 0)
	for _, edge := range e.Graph.FindViolations() {
		fromNode, _ := e.Graph.GetNode(edge.From)
		toNode, _ := e.Graph.GetNode(edge.To)

		if !passesFilter(fromNode, kinds, layers) && !passesFilter(toNode, kinds, layers) {
			continue
		}

		violations = append(violations, ViolationRecord{
			From:      edge.From,
			To:        edge.To,
			FromLayer: fromNode.Layer,
			ToLayer:   toNode.Layer,
			EdgeType:  edge.Type,
		})
	}

	total := e.Graph.EdgeCount()
	var rate float64
	if total > 0 {
		rate = math.Round(10000*float64(len(violations))/float64(total)) / 100
	}

	return ViolationsQueryResult{Violations: violations, RatePercent: rate, TotalEdges: total}
}

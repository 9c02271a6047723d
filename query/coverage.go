package query

import (
	"math"

	"github.com/c360studio/kdd/domain"
)

// coverageRule is one (name, description, edge_type) triple from the
// fixed coverage table of spec.md §4.9.5.
type coverageRule struct {
	Name        string
	Description string
	EdgeType    domain.EdgeType
}

// coverageRules is keyed by kind; a kind absent from this table has no
// coverage rules at all and CoverageQuery fails with ErrUnknownKind.
var coverageRules = map[domain.Kind][]coverageRule{
	domain.KindEntity: {
		{"events", "Events emitted by this entity", domain.EdgeEmits},
		{"business_rules", "Business rules validating this entity", domain.EdgeEntityRule},
		{"use_cases", "Other artifacts referencing this entity", domain.EdgeWikiLink},
	},
	domain.KindCommand: {
		{"use_cases", "Use cases executing this command", domain.EdgeUCExecutesCmd},
		{"scenarios", "BDD scenarios validating this command", domain.EdgeValidates},
	},
	domain.KindUseCase: {
		{"business_rules", "Business rules applied by this use case", domain.EdgeUCAppliesRule},
		{"commands", "Commands executed by this use case", domain.EdgeUCExecutesCmd},
		{"scenarios", "BDD scenarios validating this use case", domain.EdgeValidates},
	},
	domain.KindBusinessRule: {
		{"entities", "Entities this rule validates", domain.EdgeEntityRule},
		{"use_cases", "Use cases applying this rule", domain.EdgeUCAppliesRule},
		{"scenarios", "BDD scenarios validating this rule", domain.EdgeValidates},
	},
	domain.KindRequirement: {
		{"traceability", "Artifacts this requirement traces to", domain.EdgeReqTracesTo},
		{"scenarios", "BDD scenarios validating this requirement", domain.EdgeValidates},
	},
}

// CoverageCategory is one rule's outcome: the set of other-endpoint node
// IDs connected by the rule's edge type, and a covered/missing status.
type CoverageCategory struct {
	Name        string
	Description string
	Status      string
	Found       []string
}

// CoverageQueryResult is the result of CoverageQuery.
type CoverageQueryResult struct {
	Node            domain.GraphNode
	Categories      []CoverageCategory
	CoveragePercent float64
}

// CoverageQuery implements spec.md §4.9.5: for each coverage rule
// applicable to nodeID's kind, scan incident edges for the required type
// and report whether any other endpoint was found.
func (e *Engine) CoverageQuery(nodeID string) (CoverageQueryResult, error) {
	node, ok := e.Graph.GetNode(nodeID)
	if !ok {
		return CoverageQueryResult{}, ErrNodeNotFound
	}

	rules, ok := coverageRules[node.Kind]
	if !ok {
		return CoverageQueryResult{}, ErrUnknownKind
	}

	incident := append(e.Graph.OutgoingEdges(nodeID), e.Graph.IncomingEdges(nodeID)...)

	present, missing := 0, 0
	categories := make([]CoverageCategory, 0, len(rules))
	for _, rule := range rules {
		seen := make(map[string]bool)
		var found []string
		for _, edge := range incident {
			if edge.Type != rule.EdgeType {
				continue
			}
			other := edge.To
			if edge.To == nodeID {
				other = edge.From
			}
			if seen[other] {
				continue
			}
			seen[other] = true
			found = append(found, other)
		}

		status := "missing"
		if len(found) > 0 {
			status = "covered"
			present++
		} else {
			missing++
		}
		categories = append(categories, CoverageCategory{
			Name:        rule.Name,
			Description: rule.Description,
			Status:      status,
			Found:       found,
		})
	}

	var percent float64
	if total := present + missing; total > 0 {
		// present/total as a percentage, rounded to one decimal place.
		percent = math.Round(1000*float64(present)/float64(total)) / 10
	}

	return CoverageQueryResult{Node: node, Categories: categories, CoveragePercent: percent}, nil
}

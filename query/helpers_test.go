package query_test

import (
	"github.com/c360studio/kdd/domain"
)

func node(id string, kind domain.Kind, layer domain.Layer, title string) domain.GraphNode {
	return domain.GraphNode{
		ID:     id,
		Kind:   kind,
		Layer:  layer,
		Status: "draft",
		Indexed: map[string]any{
			"title": title,
		},
	}
}

func edge(from, to string, t domain.EdgeType, violation bool) domain.GraphEdge {
	return domain.GraphEdge{From: from, To: to, Type: t, LayerViolation: violation}
}

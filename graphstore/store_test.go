package graphstore_test

import (
	"testing"

	"github.com/c360studio/kdd/domain"
	"github.com/c360studio/kdd/graphstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func node(id string, layer domain.Layer) domain.GraphNode {
	return domain.GraphNode{ID: id, Kind: domain.KindEntity, Layer: layer}
}

func TestLoad_DropsEdgesWithMissingEndpoints(t *testing.T) {
	s := graphstore.New()
	s.Load([]domain.GraphNode{node("ENT:A", domain.LayerDomain)}, []domain.GraphEdge{
		{From: "ENT:A", To: "ENT:Missing", Type: domain.EdgeWikiLink},
	})
	assert.Equal(t, 0, s.EdgeCount())
}

func TestLoad_DropsDuplicateEdges(t *testing.T) {
	s := graphstore.New()
	nodes := []domain.GraphNode{node("ENT:A", domain.LayerDomain), node("ENT:B", domain.LayerDomain)}
	edges := []domain.GraphEdge{
		{From: "ENT:A", To: "ENT:B", Type: domain.EdgeWikiLink},
		{From: "ENT:A", To: "ENT:B", Type: domain.EdgeWikiLink},
	}
	s.Load(nodes, edges)
	assert.Equal(t, 1, s.EdgeCount())
}

func TestTraverse_DepthZeroReturnsOnlyRoot(t *testing.T) {
	s := graphstore.New()
	nodes := []domain.GraphNode{node("ENT:A", domain.LayerDomain), node("ENT:B", domain.LayerDomain)}
	edges := []domain.GraphEdge{{From: "ENT:A", To: "ENT:B", Type: domain.EdgeWikiLink}}
	s.Load(nodes, edges)

	visited, matched := s.Traverse("ENT:A", 0, nil, true)
	require.Len(t, visited, 1)
	assert.Equal(t, "ENT:A", visited[0].ID)
	assert.Empty(t, matched)
}

func TestTraverse_RespectLayersExcludesViolations(t *testing.T) {
	s := graphstore.New()
	nodes := []domain.GraphNode{node("ENT:A", domain.LayerDomain), node("UC:B", domain.LayerBehavior)}
	edges := []domain.GraphEdge{{From: "ENT:A", To: "UC:B", Type: domain.EdgeWikiLink, LayerViolation: true}}
	s.Load(nodes, edges)

	visited, matched := s.Traverse("ENT:A", 2, nil, true)
	assert.Len(t, visited, 1)
	assert.Empty(t, matched)

	visited, matched = s.Traverse("ENT:A", 2, nil, false)
	assert.Len(t, visited, 2)
	assert.Len(t, matched, 1)
}

func TestTraverse_UnknownRoot(t *testing.T) {
	s := graphstore.New()
	visited, matched := s.Traverse("ENT:Nope", 2, nil, true)
	assert.Nil(t, visited)
	assert.Nil(t, matched)
}

func TestTraverse_EdgeTypeFilter(t *testing.T) {
	s := graphstore.New()
	nodes := []domain.GraphNode{node("ENT:A", domain.LayerDomain), node("ENT:B", domain.LayerDomain), node("ENT:C", domain.LayerDomain)}
	edges := []domain.GraphEdge{
		{From: "ENT:A", To: "ENT:B", Type: domain.EdgeWikiLink},
		{From: "ENT:A", To: "ENT:C", Type: domain.EdgeDomainRelation},
	}
	s.Load(nodes, edges)

	visited, _ := s.Traverse("ENT:A", 2, []domain.EdgeType{domain.EdgeWikiLink}, true)
	var ids []string
	for _, n := range visited {
		ids = append(ids, n.ID)
	}
	assert.Contains(t, ids, "ENT:B")
	assert.NotContains(t, ids, "ENT:C")
}

func TestReverseTraverse_PathRecovery(t *testing.T) {
	s := graphstore.New()
	nodes := []domain.GraphNode{node("ENT:Root", domain.LayerDomain), node("BR:Mid", domain.LayerDomain), node("BR:Far", domain.LayerDomain)}
	edges := []domain.GraphEdge{
		{From: "BR:Mid", To: "ENT:Root", Type: domain.EdgeEntityRule},
		{From: "BR:Far", To: "BR:Mid", Type: domain.EdgeEntityRule},
	}
	s.Load(nodes, edges)

	results := s.ReverseTraverse("ENT:Root", 3)
	require.Len(t, results, 2)

	byID := map[string]graphstore.ReverseResult{}
	for _, r := range results {
		byID[r.Node.ID] = r
	}
	require.Contains(t, byID, "BR:Far")
	assert.Len(t, byID["BR:Far"].Path, 2)
	assert.Equal(t, "ENT:Root", byID["BR:Far"].Path[0].To)
	assert.Equal(t, "BR:Far", byID["BR:Far"].Path[1].From)
}

func TestTextSearch_SearchesAliasesAndFields(t *testing.T) {
	s := graphstore.New()
	n := node("ENT:Order", domain.LayerDomain)
	n.Aliases = []string{"PurchaseOrder"}
	n.Indexed = map[string]any{"description": "An order placed by a customer"}
	s.Load([]domain.GraphNode{n}, nil)

	assert.Len(t, s.TextSearch("purchase"), 1)
	assert.Len(t, s.TextSearch("customer"), 1)
	assert.Empty(t, s.TextSearch("customer", "attributes"))
	assert.Empty(t, s.TextSearch("nope"))
}

func TestFindViolations(t *testing.T) {
	s := graphstore.New()
	nodes := []domain.GraphNode{node("ENT:A", domain.LayerDomain), node("UC:B", domain.LayerBehavior)}
	edges := []domain.GraphEdge{
		{From: "ENT:A", To: "UC:B", Type: domain.EdgeWikiLink, LayerViolation: true},
		{From: "UC:B", To: "ENT:A", Type: domain.EdgeWikiLink, LayerViolation: false},
	}
	s.Load(nodes, edges)
	assert.Len(t, s.FindViolations(), 1)
}

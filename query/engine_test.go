package query_test

import (
	"context"
	"testing"

	"github.com/c360studio/kdd/domain"
	"github.com/c360studio/kdd/embed"
	"github.com/c360studio/kdd/graphstore"
	"github.com/c360studio/kdd/query"
	"github.com/c360studio/kdd/vectorstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildGraph() *graphstore.Store {
	nodes := []domain.GraphNode{
		node("ENT:Order", domain.KindEntity, domain.LayerDomain, "Order"),
		node("BR:Rule", domain.KindBusinessRule, domain.LayerDomain, "Rule"),
		node("UC:Place", domain.KindUseCase, domain.LayerBehavior, "Place Order"),
	}
	edges := []domain.GraphEdge{
		edge("BR:Rule", "ENT:Order", domain.EdgeEntityRule, false),
		edge("UC:Place", "BR:Rule", domain.EdgeUCAppliesRule, false),
	}
	store := graphstore.New()
	store.Load(nodes, edges)
	return store
}

func TestGraphQuery_ScoresByUndirectedDistance(t *testing.T) {
	engine := query.NewEngine(buildGraph())

	result, err := engine.GraphQuery(query.DefaultGraphQueryInput("ENT:Order"))
	require.NoError(t, err)

	assert.Equal(t, "ENT:Order", result.Center.ID)
	assert.Equal(t, 2, result.TotalRelated)
	assert.Equal(t, 2, result.TotalEdges)

	assert.Equal(t, "BR:Rule", result.Related[0].Node.ID)
	assert.InDelta(t, 0.5, result.Related[0].Score, 1e-9)
	assert.Equal(t, "UC:Place", result.Related[1].Node.ID)
	assert.InDelta(t, 1.0/3.0, result.Related[1].Score, 1e-9)
}

func TestGraphQuery_UnknownRoot(t *testing.T) {
	engine := query.NewEngine(buildGraph())
	_, err := engine.GraphQuery(query.DefaultGraphQueryInput("ENT:Missing"))
	assert.ErrorIs(t, err, query.ErrNodeNotFound)
}

func TestGraphQuery_FiltersByIncludeKinds(t *testing.T) {
	engine := query.NewEngine(buildGraph())

	input := query.DefaultGraphQueryInput("ENT:Order")
	input.IncludeKinds = []domain.Kind{domain.KindBusinessRule}

	result, err := engine.GraphQuery(input)
	require.NoError(t, err)
	require.Len(t, result.Related, 1)
	assert.Equal(t, "BR:Rule", result.Related[0].Node.ID)
}

func TestSemanticQuery_ResolvesEmbeddingToNode(t *testing.T) {
	ctx := context.Background()
	encoder := embed.NewDeterministicEncoder("det-v1", 8)
	vectors, err := encoder.Encode(ctx, []string{"Order processing pipeline"})
	require.NoError(t, err)

	store := vectorstore.New()
	store.Load([]domain.Embedding{{ID: "Order:chunk-0", DocumentID: "Order", Vector: vectors[0]}})

	engine := query.NewEngine(buildGraph())
	engine.Vectors = store
	engine.Encoder = encoder

	results, err := engine.SemanticQuery(ctx, query.DefaultSemanticQueryInput("Order processing pipeline"))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "ENT:Order", results[0].Node.ID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
}

func TestSemanticQuery_TooShort(t *testing.T) {
	engine := query.NewEngine(buildGraph())
	_, err := engine.SemanticQuery(context.Background(), query.DefaultSemanticQueryInput(" a "))
	assert.ErrorIs(t, err, query.ErrQueryTooShort)
}

func TestSemanticQuery_NoVectorStoreReturnsEmpty(t *testing.T) {
	engine := query.NewEngine(buildGraph())
	results, err := engine.SemanticQuery(context.Background(), query.DefaultSemanticQueryInput("anything"))
	require.NoError(t, err)
	assert.Empty(t, results)
}

package domain_test

import (
	"testing"

	"github.com/c360studio/kdd/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteKind_WellPlacedEntity(t *testing.T) {
	fm := map[string]any{"kind": "entity"}
	result := domain.RouteKind(fm, "specs/01-domain/entities/KDDDocument.md")

	require.True(t, result.Found)
	assert.Equal(t, domain.KindEntity, result.Kind)
	assert.Empty(t, result.Warning)
}

func TestRouteKind_MisplacedEntity(t *testing.T) {
	fm := map[string]any{"kind": "entity"}
	result := domain.RouteKind(fm, "specs/02-behavior/Stray.md")

	require.True(t, result.Found)
	assert.Equal(t, "entity 'specs/02-behavior/Stray.md' found outside expected path '01-domain/entities/'", result.Warning)
}

func TestRouteKind_AbsentFrontMatter(t *testing.T) {
	result := domain.RouteKind(nil, "specs/01-domain/entities/KDDDocument.md")
	assert.False(t, result.Found)
}

func TestRouteKind_UnknownKind(t *testing.T) {
	fm := map[string]any{"kind": "not-a-kind"}
	result := domain.RouteKind(fm, "specs/anything.md")
	assert.False(t, result.Found)
}

func TestIsLayerViolation(t *testing.T) {
	cases := []struct {
		name   string
		origin domain.Layer
		dest   domain.Layer
		want   bool
	}{
		{"domain to behavior is a violation", domain.LayerDomain, domain.LayerBehavior, true},
		{"behavior to domain is not a violation", domain.LayerBehavior, domain.LayerDomain, false},
		{"requirements is exempt regardless of direction", domain.LayerRequirements, domain.LayerVerification, false},
		{"same layer is not a violation", domain.LayerDomain, domain.LayerDomain, false},
		{"undefined destination yields false", domain.LayerDomain, domain.Layer("nope"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, domain.IsLayerViolation(tc.origin, tc.dest))
		})
	}
}

func TestDetectLayer(t *testing.T) {
	l, ok := domain.DetectLayer("specs/02-behavior/commands/PlaceOrder.md")
	require.True(t, ok)
	assert.Equal(t, domain.LayerBehavior, l)

	l, ok = domain.DetectLayer("specs/unversioned/Thing.md")
	assert.False(t, ok)
	assert.Equal(t, domain.LayerDomain, l)
}

func TestEmbeddableSections_EventIsEmpty(t *testing.T) {
	sections := domain.EmbeddableSections(domain.KindEvent)
	assert.Empty(t, sections)

	indexed := domain.IndexedSections(domain.KindEvent)
	assert.NotEmpty(t, indexed)
}

func TestLayerForPrefix(t *testing.T) {
	l, ok := domain.LayerForPrefix("UC")
	require.True(t, ok)
	assert.Equal(t, domain.LayerBehavior, l)

	_, ok = domain.LayerForPrefix("ZZZ")
	assert.False(t, ok)
}

func TestDeduplicateEdges_Idempotent(t *testing.T) {
	edges := []domain.GraphEdge{
		{From: "a", To: "b", Type: domain.EdgeWikiLink},
		{From: "a", To: "b", Type: domain.EdgeWikiLink},
		{From: "a", To: "c", Type: domain.EdgeWikiLink},
	}
	once := domain.DeduplicateEdges(edges)
	twice := domain.DeduplicateEdges(once)
	assert.Equal(t, once, twice)
	assert.Len(t, once, 2)
}

package artifact_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/c360studio/kdd/artifact"
	"github.com/c360studio/kdd/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadNode_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := artifact.New(dir)

	n := domain.GraphNode{
		ID: "ENT:Order", Kind: domain.KindEntity, SourcePath: "specs/01-domain/entities/Order.md",
		Layer: domain.LayerDomain, Status: "draft", Indexed: map[string]any{"description": "An order"},
		IndexedAt: time.Now(),
	}
	require.NoError(t, s.WriteNode(n))

	nodes, err := s.ReadNodes()
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "ENT:Order", nodes[0].ID)
	assert.Equal(t, "An order", nodes[0].Indexed["description"])
}

func TestWriteNode_ReplacesByID(t *testing.T) {
	dir := t.TempDir()
	s := artifact.New(dir)

	n := domain.GraphNode{ID: "ENT:Order", Kind: domain.KindEntity, Status: "draft"}
	require.NoError(t, s.WriteNode(n))
	n.Status = "approved"
	require.NoError(t, s.WriteNode(n))

	nodes, err := s.ReadNodes()
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "approved", nodes[0].Status)
}

func TestAppendReadEdges(t *testing.T) {
	dir := t.TempDir()
	s := artifact.New(dir)

	require.NoError(t, s.AppendEdges([]domain.GraphEdge{
		{From: "ENT:A", To: "ENT:B", Type: domain.EdgeWikiLink},
	}))
	require.NoError(t, s.AppendEdges([]domain.GraphEdge{
		{From: "ENT:B", To: "ENT:C", Type: domain.EdgeWikiLink},
	}))

	edges, err := s.ReadEdges()
	require.NoError(t, err)
	assert.Len(t, edges, 2)
}

func TestClearEdges(t *testing.T) {
	dir := t.TempDir()
	s := artifact.New(dir)
	require.NoError(t, s.AppendEdges([]domain.GraphEdge{{From: "ENT:A", To: "ENT:B", Type: domain.EdgeWikiLink}}))
	require.NoError(t, s.ClearEdges())

	edges, err := s.ReadEdges()
	require.NoError(t, err)
	assert.Empty(t, edges)
}

func TestWriteReadEmbeddings(t *testing.T) {
	dir := t.TempDir()
	s := artifact.New(dir)

	embeddings := []domain.Embedding{
		{ID: "Order:chunk-0", DocumentID: "Order", Kind: domain.KindEntity, Vector: []float64{0.1, 0.2}},
	}
	require.NoError(t, s.WriteEmbeddings(domain.KindEntity, "Order", embeddings))

	loaded, err := s.ReadEmbeddings()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "Order:chunk-0", loaded[0].ID)
}

func TestManifest_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := artifact.New(dir)

	_, ok, err := s.ReadManifest()
	require.NoError(t, err)
	assert.False(t, ok)

	m := domain.Manifest{FormatVersion: "1", IndexLevel: domain.IndexLevelL1}
	require.NoError(t, s.WriteManifest(m))

	loaded, ok, err := s.ReadManifest()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, domain.IndexLevelL1, loaded.IndexLevel)
}

func TestDeleteDocumentArtifacts(t *testing.T) {
	dir := t.TempDir()
	s := artifact.New(dir)

	n := domain.GraphNode{ID: "ENT:Order", Kind: domain.KindEntity, Status: "draft"}
	require.NoError(t, s.WriteNode(n))
	require.NoError(t, s.WriteEmbeddings(domain.KindEntity, "Order", []domain.Embedding{{ID: "Order:chunk-0"}}))
	require.NoError(t, s.AppendEdges([]domain.GraphEdge{
		{From: "ENT:Order", To: "ENT:Customer", Type: domain.EdgeWikiLink},
		{From: "ENT:Other", To: "ENT:Unrelated", Type: domain.EdgeWikiLink},
	}))

	require.NoError(t, s.DeleteDocumentArtifacts(domain.KindEntity, "Order", "ENT:Order"))

	nodes, err := s.ReadNodes()
	require.NoError(t, err)
	assert.Empty(t, nodes)

	embeddings, err := s.ReadEmbeddings()
	require.NoError(t, err)
	assert.Empty(t, embeddings)

	edges, err := s.ReadEdges()
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, "ENT:Other", edges[0].From)

	assert.NoFileExists(t, filepath.Join(dir, "nodes", "entity", "Order.json"))
}

package indexer_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/c360studio/kdd/artifact"
	"github.com/c360studio/kdd/domain"
	"github.com/c360studio/kdd/embed"
	"github.com/c360studio/kdd/extract"
	"github.com/c360studio/kdd/indexer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSpec(t *testing.T, dir, relPath, content string) string {
	t.Helper()
	full := filepath.Join(dir, relPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	return full
}

func TestIndexFile_EntitySuccess(t *testing.T) {
	dir := t.TempDir()
	path := writeSpec(t, dir, "specs/01-domain/entities/Order.md",
		"---\nkind: entity\nid: Order\n---\n\n# Description\n\nAn order placed by a customer.\n")

	indexDir := t.TempDir()
	cmd := indexer.NewCommand(extract.NewDefaultRegistry(), artifact.New(indexDir))

	result, err := cmd.IndexFile(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "ENT:Order", result.NodeID)
	assert.Empty(t, result.SkippedReason)
}

func TestIndexFile_MisplacedWarning(t *testing.T) {
	dir := t.TempDir()
	path := writeSpec(t, dir, "specs/02-behavior/Stray.md",
		"---\nkind: entity\nid: Stray\n---\n\n# Description\n\nMisplaced.\n")

	indexDir := t.TempDir()
	cmd := indexer.NewCommand(extract.NewDefaultRegistry(), artifact.New(indexDir))

	result, err := cmd.IndexFile(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.NotEmpty(t, result.Warning)
}

func TestIndexFile_SkipsUnknownKind(t *testing.T) {
	dir := t.TempDir()
	path := writeSpec(t, dir, "specs/loose.md", "no front matter here\n")

	indexDir := t.TempDir()
	cmd := indexer.NewCommand(extract.NewDefaultRegistry(), artifact.New(indexDir))

	result, err := cmd.IndexFile(context.Background(), path)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.SkippedReason)
}

func TestIndexFile_EmbedsAtL2(t *testing.T) {
	dir := t.TempDir()
	path := writeSpec(t, dir, "specs/01-domain/entities/Order.md",
		"---\nkind: entity\nid: Order\n---\n\n# Description\n\nAn order placed by a customer, tracked end to end.\n")

	indexDir := t.TempDir()
	store := artifact.New(indexDir)
	cmd := indexer.NewCommand(extract.NewDefaultRegistry(), store)
	cmd.IndexLevel = domain.IndexLevelL2
	cmd.Encoder = embed.NewDeterministicEncoder("det-v1", 16)

	result, err := cmd.IndexFile(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Greater(t, result.EmbeddingCount, 0)

	embeddings, err := store.ReadEmbeddings()
	require.NoError(t, err)
	assert.Len(t, embeddings, result.EmbeddingCount)
}

func TestIndexFile_NoEmbedAtL1(t *testing.T) {
	dir := t.TempDir()
	path := writeSpec(t, dir, "specs/01-domain/entities/Order.md",
		"---\nkind: entity\nid: Order\n---\n\n# Description\n\nAn order.\n")

	indexDir := t.TempDir()
	store := artifact.New(indexDir)
	cmd := indexer.NewCommand(extract.NewDefaultRegistry(), store)
	cmd.Encoder = embed.NewDeterministicEncoder("det-v1", 16)

	result, err := cmd.IndexFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 0, result.EmbeddingCount)
}

func TestWalk_DiscoversMarkdownRecursively(t *testing.T) {
	dir := t.TempDir()
	writeSpec(t, dir, "specs/01-domain/entities/Order.md", "# Order\n")
	writeSpec(t, dir, "specs/02-behavior/commands/Place.md", "# Place\n")
	writeSpec(t, dir, "specs/README.txt", "ignored\n")

	paths, err := indexer.Walk(filepath.Join(dir, "specs"))
	require.NoError(t, err)
	assert.Len(t, paths, 2)
}

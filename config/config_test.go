package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/c360studio/kdd/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	assert.Equal(t, "specs", cfg.Index.SpecsPath)
	assert.Equal(t, ".kdd-index", cfg.Index.IndexPath)
	assert.Equal(t, 1500, cfg.Index.MaxChunkChars)
	assert.Equal(t, 200, cfg.Index.OverlapChars)
	assert.NoError(t, cfg.Validate())
}

func TestValidate_RejectsEmptyPaths(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Index.SpecsPath = ""
	assert.Error(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kdd.yaml")
	require.NoError(t, os.WriteFile(path, []byte("index:\n  specs_path: my-specs\n  domain: billing\n"), 0o644))

	cfg, err := config.LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "my-specs", cfg.Index.SpecsPath)
	assert.Equal(t, "billing", cfg.Index.Domain)
	assert.Equal(t, ".kdd-index", cfg.Index.IndexPath)
}

func TestMerge_OtherTakesPrecedence(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Merge(&config.Config{Index: config.IndexConfig{IndexPath: "/tmp/other-index"}})
	assert.Equal(t, "/tmp/other-index", cfg.Index.IndexPath)
	assert.Equal(t, "specs", cfg.Index.SpecsPath)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("KDD_SPECS_PATH", "env-specs")
	t.Setenv("KDD_INDEX_PATH", "env-index")

	cfg := config.DefaultConfig()
	cfg.ApplyEnv()
	assert.Equal(t, "env-specs", cfg.Index.SpecsPath)
	assert.Equal(t, "env-index", cfg.Index.IndexPath)
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	assert.True(t, c.IsDefault())
	assert.Equal(t, []string{"console"}, c.Reporters)
	assert.False(t, c.GetParallel())
	assert.Equal(t, DefaultConcurrency, c.Concurrency)
}

func TestGetters_NilPointers(t *testing.T) {
	c := &Config{}
	assert.False(t, c.GetBail())
	assert.False(t, c.GetUpdateSnapshots())
	assert.False(t, c.GetNoColor())
}

func TestFindAndLoadConfig(t *testing.T) {
	dir := t.TempDir()

	c, err := FindAndLoadConfig(dir)
	require.NoError(t, err)
	assert.True(t, c.IsDefault())

	data := `{"defaultEnvironment": "ci", "bail": true, "vars": {"minAge": 18},
		"environments": {"ci": {"host": "ci.local"}}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hitexpectrc"), []byte(data), 0644))

	c, err = FindAndLoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "ci", c.DefaultEnvironment)
	assert.True(t, c.GetBail())
	assert.Equal(t, float64(18), c.Vars["minAge"])
	assert.Equal(t, "ci.local", c.EnvironmentVars("")["host"])
	assert.Nil(t, c.EnvironmentVars("prod"))
	assert.Equal(t, 5000, c.Timeout)
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0644))
	_, err = LoadConfig(bad)
	assert.Error(t, err)

	negative := filepath.Join(dir, "negative.json")
	require.NoError(t, os.WriteFile(negative, []byte(`{"concurrency": -1}`), 0644))
	_, err = LoadConfig(negative)
	assert.ErrorContains(t, err, "concurrency")
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()
	base.Vars = map[string]any{"a": 1, "b": 2}

	merged := base.Merge(&Config{
		Bail:          BoolPtr(true),
		Concurrency:   8,
		SnapshotStore: "sqlite://snaps.db",
		Vars:          map[string]any{"b": 3},
		Reporters:     []string{"json"},
	})

	assert.True(t, merged.GetBail())
	assert.False(t, merged.GetVerbose())
	assert.Equal(t, 8, merged.Concurrency)
	assert.Equal(t, "sqlite://snaps.db", merged.SnapshotStore)
	assert.Equal(t, map[string]any{"a": 1, "b": 3}, merged.Vars)
	assert.Equal(t, []string{"json"}, merged.Reporters)

	// the receiver is left alone
	assert.Equal(t, 2, base.Vars["b"])
	assert.Same(t, base, base.Merge(nil))
}

func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hitexpect.config.json")
	c := DefaultConfig()
	c.OutputDir = "reports"
	require.NoError(t, c.SaveConfig(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "reports", loaded.OutputDir)
}

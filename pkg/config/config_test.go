package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewConfigValidatesCleanly(t *testing.T) {
	require.NoError(t, NewConfig().Validate())
}

func TestNewConfigRejectsCorruptedAlignParams(t *testing.T) {
	c := NewConfig()
	c.Align.SearchRadii[0] = -1
	require.Error(t, c.Validate())
}

func TestAsYamlRoundTripsThroughLoad(t *testing.T) {
	c := NewConfig()
	c.OutputDir = "/tmp/out"
	c.EmitHeatmaps = true
	c.Align.Parallelism = 4

	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(c.AsYaml()), 0644))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/tmp/out", loaded.OutputDir)
	require.True(t, loaded.EmitHeatmaps)
	require.Equal(t, 4, loaded.Align.Parallelism)
}

func TestLoadMissingFieldsKeepDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("outputdir: /tmp/partial\n"), 0644))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/tmp/partial", loaded.OutputDir)
	require.Equal(t, 1, loaded.Align.Parallelism) // default, not zeroed by the partial file.
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.Error(t, err)
}

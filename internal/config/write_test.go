package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Table.Decks = 2
	cfg.Table.DealerHitsSoft17 = false
	cfg.UI.DealerDelayMs = 0
	cfg.UI.Color = false
	cfg.Simulation.Strategy = "mimic"

	path := filepath.Join(t.TempDir(), "blackjack.hcl")
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSaveOverwritesAndCleansUp(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "blackjack.hcl")
	require.NoError(t, os.WriteFile(path, []byte("garbage {"), 0o644))

	require.NoError(t, Default().Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), loaded)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should be renamed away")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestSaveMissingDirectory(t *testing.T) {
	t.Parallel()

	err := Default().Save(filepath.Join(t.TempDir(), "missing", "blackjack.hcl"))
	assert.Error(t, err)
}

func TestEncode(t *testing.T) {
	out := string(Default().Encode())
	assert.Contains(t, out, "table {")
	assert.Contains(t, out, "dealer_hits_soft_17 = true")
	assert.Contains(t, out, `log_level       = "info"`)
	assert.Contains(t, out, "simulation {")
}

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"diffstack.dev/diffstack/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	require.False(t, cfg.AssumeYes)
	require.False(t, cfg.BrowseOnCreate)
	require.False(t, cfg.DefaultToListMode)
	require.False(t, cfg.Verbose)
	require.Equal(t, "main", cfg.Trunk)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := `
assume_yes = true
default_to_list_mode = true
trunk = "develop"

[conduit]
uri = "https://phab.example.com"
token = "api-abc123"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(content), 0o644))

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	require.True(t, cfg.AssumeYes)
	require.True(t, cfg.DefaultToListMode)
	require.False(t, cfg.BrowseOnCreate)
	require.Equal(t, "develop", cfg.Trunk)
	require.Equal(t, "https://phab.example.com", cfg.Conduit.URI)
	require.Equal(t, "api-abc123", cfg.Conduit.Token)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	content := `
trunk = "develop"

[conduit]
token = "from-file"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(content), 0o644))

	t.Setenv("DIFFSTACK_CONDUIT_TOKEN", "from-env")
	t.Setenv("DIFFSTACK_ASSUME_YES", "true")

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	require.Equal(t, "from-env", cfg.Conduit.Token)
	require.True(t, cfg.AssumeYes)
	require.Equal(t, "develop", cfg.Trunk)
}

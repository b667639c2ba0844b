package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "gui", cfg.Scaling.Extension)
	assert.Equal(t, ".uprez/factors.db", cfg.Database.Path)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.API.OpenRouter.BaseURL)
	assert.Greater(t, cfg.Scaling.Workers, 0)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
scaling:
  extension: gfx
  workers: 3
database:
  path: /tmp/custom.db
images:
  texconv_options: ["-y"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gfx", cfg.Scaling.Extension)
	assert.Equal(t, 3, cfg.Scaling.Workers)
	assert.Equal(t, "/tmp/custom.db", cfg.Database.Path)
	assert.Equal(t, []string{"-y"}, cfg.Images.TexconvOptions)
	// Keys absent from the file keep their defaults.
	assert.Equal(t, ".uprez/logs", cfg.Paths.LogDir)
}

func TestLoad_CredentialEnvVars(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "sk-or-test")
	t.Setenv("REPLICATE_API_TOKEN", "r8-test")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "sk-or-test", cfg.API.OpenRouter.APIKey)
	assert.Equal(t, "r8-test", cfg.API.Replicate.Token)
}

func TestLoad_EnvPrefixOverride(t *testing.T) {
	t.Setenv("UPREZ_SCALING_EXTENSION", "txt")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "txt", cfg.Scaling.Extension)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scaling: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Scaling.Extension = "gfx"
	cfg.API.OpenRouter.Model = "test/model"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gfx", loaded.Scaling.Extension)
	assert.Equal(t, "test/model", loaded.API.OpenRouter.Model)
	assert.Equal(t, cfg.Database.Path, loaded.Database.Path)
}

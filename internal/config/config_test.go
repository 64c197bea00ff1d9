package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "shiftlog.state", cfg.Storage.Key)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "127.0.0.1:8765", cfg.Server.Addr)
	assert.Equal(t, "/v0", cfg.Server.BasePath)
}

func TestFromYAMLKeepsDefaultsForMissingKeys(t *testing.T) {
	cfg, err := FromYAML([]byte("storage:\n  backend: file\n"))
	require.NoError(t, err)
	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.Equal(t, "shiftlog.state", cfg.Storage.Key)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestFromYAMLRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{"backend", "storage:\n  backend: redis\n", "config.storage.backend"},
		{"key", "storage:\n  key: \"\"\n", "config.storage.key"},
		{"level", "log:\n  level: loud\n", "config.log.level"},
		{"addr", "server:\n  addr: nowhere\n", "config.server.addr"},
		{"base path", "server:\n  base_path: v0\n", "config.server.base_path"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromYAML([]byte(tc.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestFromYAMLRejectsMalformedYAML(t *testing.T) {
	_, err := FromYAML([]byte("storage: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config yaml")
}

func TestLoadAndLoadOptional(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shiftlog config init")

	cfg, err := LoadOptional(dir)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("log:\n  level: debug\n"), 0o644))
	cfg, err = Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestGeneratedTemplateRoundTrips(t *testing.T) {
	cfg, err := FromYAML([]byte(GenerateDefault()))
	require.NoError(t, err)
	out, err := cfg.YAML()
	require.NoError(t, err)
	again, err := FromYAML([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestPath(t *testing.T) {
	assert.Equal(t, FileName, Path(""))
	assert.Equal(t, filepath.Join("ws", FileName), Path("ws"))
}

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.bryk.io/routebroker/config"
)

func TestLoadDefaultsOnly(t *testing.T) {
	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"connected", "igp", "other"}, cfg.Priorities)
	assert.Equal(t, 200, cfg.MaxTopicLength)
	assert.Equal(t, ":8080", cfg.HTTP.ListenAddress)
	assert.Equal(t, 20*time.Second, cfg.HTTP.MaxPollTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, ":9090", cfg.Metrics.ListenAddress)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
priorities: [connected, static]
http:
  listen_address: ":9999"
log:
  level: debug
`), 0o600))

	cfg, err := config.Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"connected", "static"}, cfg.Priorities)
	assert.Equal(t, ":9999", cfg.HTTP.ListenAddress)
	assert.Equal(t, "debug", cfg.Log.Level)
	// untouched by the file, still the built-in default
	assert.Equal(t, 200, cfg.MaxTopicLength)
}

func TestLoadFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  listen_address: ":9999"
`), 0o600))

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--http.listen_address=:7070"}))

	cfg, err := config.Load(path, fs)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.HTTP.ListenAddress)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

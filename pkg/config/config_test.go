package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	// an explicit path that does not exist is an error
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	cfg := Default()
	assert.Equal(t, "meshbus", cfg.AppName)
	assert.Equal(t, []string{"loopback(1)"}, cfg.Transports)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Trace.Enable)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "meshbus.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app_name: busdemo
transports:
  - "loopback(9)"
log:
  level: debug
  format: json
trace:
  enable: true
  format: cbor
  output: stdout
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "busdemo", cfg.AppName)
	assert.Equal(t, []string{"loopback(9)"}, cfg.Transports)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.Trace.Enable)
	assert.Equal(t, "cbor", cfg.Trace.Format)
}

func TestValidation(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad-level.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("log:\n  level: loud\n"), 0o644))
	_, err := Load(bad)
	assert.ErrorContains(t, err, "log.level")

	empty := filepath.Join(dir, "no-transports.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("transports: []\n"), 0o644))
	_, err = Load(empty)
	assert.ErrorContains(t, err, "transport")

	badTrace := filepath.Join(dir, "bad-trace.yaml")
	require.NoError(t, os.WriteFile(badTrace, []byte("trace:\n  format: xml\n"), 0o644))
	_, err = Load(badTrace)
	assert.ErrorContains(t, err, "trace.format")
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("MESHBUS_LOG_LEVEL", "warn")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
}

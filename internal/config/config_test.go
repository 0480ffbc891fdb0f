package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, 10*time.Millisecond, cfg.CycleInterval)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "KeyMapper Xbox 360 Pad", cfg.DeviceName)
	assert.False(t, cfg.Autostart)
	assert.Contains(t, cfg.ProfilePath, "keymapper")
}

func TestLoadFlagsOverride(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)
	require.NoError(t, flags.Parse([]string{
		"--listen", ":9090",
		"--cycle-interval", "5ms",
		"--autostart",
	}))

	cfg, err := Load(flags)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Listen)
	assert.Equal(t, 5*time.Millisecond, cfg.CycleInterval)
	assert.True(t, cfg.Autostart)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("KEYMAPPER_LOG_LEVEL", "debug")
	t.Setenv("KEYMAPPER_LISTEN", ":7070")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":7070", cfg.Listen)
}

func TestURL(t *testing.T) {
	assert.Equal(t, "http://localhost:8080", (&Config{Listen: ":8080"}).URL())
	assert.Equal(t, "http://127.0.0.1:9000", (&Config{Listen: "127.0.0.1:9000"}).URL())
}

func TestNormalizeBadValues(t *testing.T) {
	cfg := &Config{CycleInterval: -1}
	normalize(cfg, "/tmp/keymapper")
	assert.Equal(t, 10*time.Millisecond, cfg.CycleInterval)
	assert.NotEmpty(t, cfg.ProfilePath)
	assert.NotEmpty(t, cfg.DeviceName)
}

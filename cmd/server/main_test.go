package main

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/webgame/internal/config"
)

func load(t *testing.T, args ...string) config.Config {
	t.Helper()

	v := config.New()
	flags := pflag.NewFlagSet("server", pflag.ContinueOnError)
	addServerFlags(flags, v)
	require.NoError(t, flags.Parse(args))

	cfg, err := config.Load(v, config.Options{EnvFiles: []string{}})
	require.NoError(t, err)
	return cfg
}

func TestUnsetFlagsKeepDefaults(t *testing.T) {
	cfg := load(t)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Storage.Type)
	assert.Equal(t, "data/webgame.db", cfg.Storage.SQLitePath)
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("WEBGAME_SERVER_PORT", "9000")
	t.Setenv("WEBGAME_STORAGE_TYPE", "redis")

	cfg := load(t, "--port", "9100", "--storage", "sqlite", "--sqlite-path", "/tmp/webgame.db")

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Storage.Type)
	assert.Equal(t, "/tmp/webgame.db", cfg.Storage.SQLitePath)
}

func TestEnvironmentAppliesWithoutFlag(t *testing.T) {
	t.Setenv("WEBGAME_SERVER_PORT", "9000")

	cfg := load(t, "--log-level", "debug")

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stefanpenner/trackline/pkg/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		DirEnv, "TRACKLINE_BACKEND", "TRACKLINE_CLOCK_TICK", "TRACKLINE_RECLASSIFY_INTERVAL",
		"TRACKLINE_WRITE_TIMEOUT", "TRACKLINE_LOG_LEVEL", "TRACKLINE_LOG_FILE", "TRACKLINE_LOG_FORMAT", "TRACKLINE_WATCH",
	} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0o644))
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, Default(dir), cfg)
	assert.Equal(t, time.Minute, cfg.ClockTick)
	assert.Equal(t, 30*time.Second, cfg.ReclassifyInterval)
	assert.Equal(t, BackendFile, cfg.Backend)
	assert.True(t, cfg.Watch)
	assert.Equal(t, filepath.Join(dir, "trackline.log"), cfg.LogFile)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, `
backend: sqlite
clock_tick: 10s
reclassify_interval: 5s
log_level: debug
log_format: JSON
watch: false
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.Equal(t, 10*time.Second, cfg.ClockTick)
	assert.Equal(t, 5*time.Second, cfg.ReclassifyInterval)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.LogJSON)
	assert.False(t, cfg.Watch)
}

func TestLoadBadDurationFallsBack(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, "clock_tick: soon\n")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, cfg.ClockTick)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, "backend: sqlite\nclock_tick: 10s\n")
	t.Setenv("TRACKLINE_BACKEND", "memory")
	t.Setenv("TRACKLINE_CLOCK_TICK", "2s")
	t.Setenv("TRACKLINE_WATCH", "false")
	t.Setenv("TRACKLINE_LOG_FORMAT", "json")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.True(t, cfg.LogJSON)
	assert.Equal(t, BackendMemory, cfg.Backend)
	assert.Equal(t, 2*time.Second, cfg.ClockTick)
	assert.False(t, cfg.Watch)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed yaml", "backend: [file\n"},
		{"unknown backend", "backend: postgres\n"},
		{"zero interval", "reclassify_interval: 0s\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			dir := t.TempDir()
			writeConfig(t, dir, tt.body)
			_, err := Load(dir)
			assert.Error(t, err)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	cfg := Default(dir)
	cfg.Backend = BackendSQLite
	cfg.ClockTick = 15 * time.Second
	cfg.Watch = false
	cfg.LogJSON = true
	require.NoError(t, cfg.Save())

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestInit(t *testing.T) {
	clearEnv(t)
	dir := filepath.Join(t.TempDir(), "fresh")

	path, err := Init(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileName), path)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, Default(dir), cfg)

	writeConfig(t, dir, "backend: sqlite\n")
	_, err = Init(dir)
	assert.ErrorIs(t, err, ErrExists)

	cfg, err = Load(dir)
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Backend, "init must not overwrite")
}

func TestOpenGateway(t *testing.T) {
	tests := []struct {
		backend Backend
		check   func(t *testing.T, gw kv.Gateway)
	}{
		{BackendFile, func(t *testing.T, gw kv.Gateway) { assert.IsType(t, &kv.Dir{}, gw) }},
		{BackendSQLite, func(t *testing.T, gw kv.Gateway) { assert.IsType(t, &kv.SQLite{}, gw) }},
		{BackendMemory, func(t *testing.T, gw kv.Gateway) { assert.IsType(t, &kv.Memory{}, gw) }},
	}
	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			cfg := Default(t.TempDir())
			cfg.Backend = tt.backend
			gw, closer, err := cfg.OpenGateway()
			require.NoError(t, err)
			defer closer.Close()
			tt.check(t, gw)
		})
	}

	_, _, err := Config{Backend: "tape"}.OpenGateway()
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestResolveDataDir(t *testing.T) {
	clearEnv(t)
	assert.Equal(t, "/from/flag", ResolveDataDir("/from/flag"))
	assert.NotEmpty(t, ResolveDataDir(""))

	t.Setenv(DirEnv, "/from/env")
	assert.Equal(t, "/from/env", ResolveDataDir("/from/flag"))
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// inTempDir keeps Load from picking up a .env in the package directory.
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	inTempDir(t)
	for _, key := range []string{"QDECK_LOG_LEVEL", "QDECK_LOG_PRETTY", "QDECK_SHOTS", "QDECK_SEED", "QDECK_EXPORT_DIR"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.LogPretty)
	assert.Equal(t, 1024, cfg.Shots)
	assert.Equal(t, int64(0), cfg.Seed)
	assert.Equal(t, ".", cfg.Export)
}

func TestLoad_Env(t *testing.T) {
	inTempDir(t)
	t.Setenv("QDECK_LOG_LEVEL", "debug")
	t.Setenv("QDECK_LOG_PRETTY", "false")
	t.Setenv("QDECK_SHOTS", "256")
	t.Setenv("QDECK_SEED", "42")
	t.Setenv("QDECK_EXPORT_DIR", "out")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, &Config{LogLevel: "debug", Shots: 256, Seed: 42, Export: "out"}, cfg)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := inTempDir(t)
	t.Setenv("QDECK_SHOTS", "")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("QDECK_SHOTS=77\n"), 0o600))
	// godotenv never overrides variables already set, so clear it fully.
	require.NoError(t, os.Unsetenv("QDECK_SHOTS"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 77, cfg.Shots)
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	inTempDir(t)
	t.Setenv("QDECK_SHOTS", "lots")
	t.Setenv("QDECK_LOG_PRETTY", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.Shots)
	assert.True(t, cfg.LogPretty)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"ok", Config{LogLevel: "warn", Shots: 1, Export: "."}, false},
		{"zero shots", Config{LogLevel: "info", Shots: 0, Export: "."}, true},
		{"negative shots", Config{LogLevel: "info", Shots: -3, Export: "."}, true},
		{"bad level", Config{LogLevel: "loud", Shots: 10, Export: "."}, true},
		{"no export dir", Config{LogLevel: "info", Shots: 10}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rowclash.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	cfg, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, "9999", cfg.Port)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := writeConfig(t, `
decks = "custom.yaml"
port = "7000"
seed = 42
initial_hand = 8
log_level = "debug"
`)
	t.Setenv("ROWCLASH_PORT", "7100")
	t.Setenv("ROWCLASH_ROUND_DRAW", "3")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "custom.yaml", cfg.Decks)
	assert.Equal(t, "7100", cfg.Port, "env overrides file")
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 8, cfg.InitialHand)
	assert.Equal(t, 3, cfg.RoundDraw)
	assert.Equal(t, "8080", cfg.WebPort, "unset keys keep defaults")
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(writeConfig(t, `port = [`))
	assert.ErrorContains(t, err, "parse config file")

	_, err = Load(writeConfig(t, `port = "http"`))
	assert.ErrorContains(t, err, "invalid port")

	_, err = Load(writeConfig(t, `log_level = "loud"`))
	assert.ErrorContains(t, err, "unknown log level")

	t.Setenv("ROWCLASH_SEED", "not-a-number")
	_, err = Load("")
	assert.ErrorContains(t, err, "parse env")
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InitialHand = -1
	cfg.RoundDraw = -2
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "initial_hand")
	assert.Contains(t, err.Error(), "round_draw")
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 7

	var buf bytes.Buffer
	require.NoError(t, cfg.Encode(&buf))

	var decoded Config
	require.NoError(t, toml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, *cfg, decoded)
}

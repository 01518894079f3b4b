package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/zengine/internal/core/observability/log"
)

const sample = `
log:
  level: debug
  encoding: json
engine:
  frame_rate: 30
  max_frames: 120
tokens:
  start: 10
  step: 5
input:
  bindings:
    - key: w
      action: press
      command: player move-z -1
scripts: [boot.txt]
lua_scripts: [init.lua]
scene: level1.yaml
`

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 60, cfg.Engine.FrameRate)
	assert.Equal(t, uint32(1), cfg.Tokens.Start)
	assert.Equal(t, uint32(1), cfg.Tokens.Step)
}

func TestParse(t *testing.T) {
	cfg, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Encoding)
	assert.Equal(t, []string{"stderr"}, cfg.Log.Outputs, "unset fields keep defaults")
	assert.Equal(t, 30, cfg.Engine.FrameRate)
	assert.Equal(t, uint64(120), cfg.Engine.MaxFrames)
	assert.Equal(t, TokenConfig{Start: 10, Step: 5}, cfg.Tokens)
	assert.Equal(t, []Binding{{Key: "w", Action: "press", Command: "player move-z -1"}}, cfg.Input.Bindings)
	assert.Equal(t, []string{"boot.txt"}, cfg.Scripts)
	assert.Equal(t, []string{"init.lua"}, cfg.LuaScripts)
	assert.Equal(t, "level1.yaml", cfg.Scene)
}

func TestParseEmptyDocument(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse(strings.NewReader("engine:\n  fps: 30\n"))
	assert.Error(t, err)
}

func TestLoadAppliesEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	t.Setenv("ZENGINE_LOG_LEVEL", "warn")
	t.Setenv("ZENGINE_FRAME_RATE", "144")
	t.Setenv("ZENGINE_MAX_FRAMES", "3")
	t.Setenv("ZENGINE_SCENE", "other.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 144, cfg.Engine.FrameRate)
	assert.Equal(t, uint64(3), cfg.Engine.MaxFrames)
	assert.Equal(t, "other.yaml", cfg.Scene)
	assert.Equal(t, "json", cfg.Log.Encoding, "fields without variables keep file values")
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.Engine.FrameRate)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidEnv(t *testing.T) {
	t.Setenv("ZENGINE_FRAME_RATE", "fast")
	_, err := Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero frame rate", func(c *Config) { c.Engine.FrameRate = 0 }},
		{"negative frame rate", func(c *Config) { c.Engine.FrameRate = -1 }},
		{"zero token step", func(c *Config) { c.Tokens.Step = 0 }},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad encoding", func(c *Config) { c.Log.Encoding = "xml" }},
		{"empty key", func(c *Config) {
			c.Input.Bindings = []Binding{{Key: " ", Action: "press", Command: "a b"}}
		}},
		{"bad action", func(c *Config) {
			c.Input.Bindings = []Binding{{Key: "w", Action: "hold", Command: "a b"}}
		}},
		{"short command", func(c *Config) {
			c.Input.Bindings = []Binding{{Key: "w", Action: "press", Command: "player"}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestLogger(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "debug"
	lc, err := cfg.Logger()
	require.NoError(t, err)
	assert.Equal(t, log.LevelDebug, lc.Level)
	assert.Equal(t, "console", lc.Encoding)
	assert.Equal(t, []string{"stderr"}, lc.Outputs)
}

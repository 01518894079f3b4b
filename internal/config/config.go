// Package config loads the engine configuration from YAML and the
// environment.
//
// A minimal file:
//
//	log:
//	  level: debug
//	engine:
//	  frame_rate: 60
//	input:
//	  bindings:
//	    - {key: w, action: press, command: player translate 0 0 -1}
//	scripts: [boot.txt]
//	scene: level1.yaml
//
// Environment variables override the file after it is read.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/zengine/internal/core/input"
	"github.com/zeusync/zengine/internal/core/observability/log"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Log        LogConfig    `yaml:"log"`
	Engine     EngineConfig `yaml:"engine"`
	Tokens     TokenConfig  `yaml:"tokens"`
	Input      InputConfig  `yaml:"input"`
	Scripts    []string     `yaml:"scripts,omitempty"`
	LuaScripts []string     `yaml:"lua_scripts,omitempty"`
	Scene      string       `yaml:"scene,omitempty" env:"ZENGINE_SCENE"`
}

type LogConfig struct {
	Level    string   `yaml:"level" env:"ZENGINE_LOG_LEVEL"`
	Encoding string   `yaml:"encoding"`
	Outputs  []string `yaml:"outputs,omitempty"`
}

type EngineConfig struct {
	// FrameRate is the target number of frames per second.
	FrameRate int `yaml:"frame_rate" env:"ZENGINE_FRAME_RATE"`
	// MaxFrames stops the loop after that many frames; 0 runs until quit.
	MaxFrames uint64 `yaml:"max_frames" env:"ZENGINE_MAX_FRAMES"`
}

// TokenConfig seeds the id generators of the terminal token tables.
type TokenConfig struct {
	Start uint32 `yaml:"start"`
	Step  uint32 `yaml:"step"`
}

type InputConfig struct {
	Bindings []Binding `yaml:"bindings,omitempty"`
}

type Binding struct {
	Key     string `yaml:"key"`
	Action  string `yaml:"action"`
	Command string `yaml:"command"`
}

func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:    "info",
			Encoding: "console",
			Outputs:  []string{"stderr"},
		},
		Engine: EngineConfig{
			FrameRate: 60,
		},
		Tokens: TokenConfig{
			Start: 1,
			Step:  1,
		},
	}
}

// Load reads the YAML file at path over the defaults and applies the
// environment. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()
		if err := cfg.decode(f); err != nil {
			return nil, fmt.Errorf("decode config %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse reads a YAML document over the defaults. The environment is not
// consulted.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(r); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplyEnv overrides fields whose variables are set. Unset variables keep
// the current values.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Encoding {
	case "", "console", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log encoding %q", c.Log.Encoding))
	}
	if c.Engine.FrameRate <= 0 {
		errs = append(errs, fmt.Errorf("frame_rate must be positive, got %d", c.Engine.FrameRate))
	}
	if c.Tokens.Step == 0 {
		errs = append(errs, errors.New("tokens.step must be positive"))
	}
	for i, b := range c.Input.Bindings {
		if strings.TrimSpace(b.Key) == "" {
			errs = append(errs, fmt.Errorf("bindings[%d]: empty key", i))
		}
		if _, err := input.ParseAction(b.Action); err != nil {
			errs = append(errs, fmt.Errorf("bindings[%d]: %w", i, err))
		}
		if len(strings.Fields(b.Command)) < 2 {
			errs = append(errs, fmt.Errorf("bindings[%d]: command %q needs an object and a command", i, b.Command))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// Logger returns the logger settings described by the log section.
func (c *Config) Logger() (log.Config, error) {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.Config{}, err
	}
	return log.Config{
		Level:    level,
		Encoding: c.Log.Encoding,
		Outputs:  c.Log.Outputs,
	}, nil
}

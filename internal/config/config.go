package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/adaptsim/internal/modulation"
	"github.com/san-kum/adaptsim/internal/scenario"
	"github.com/san-kum/adaptsim/internal/seir"
	"github.com/san-kum/adaptsim/internal/sweep"
)

const (
	DefaultDataDir  = "./data"
	DefaultLogLevel = "info"
)

var ErrUnknownPreset = errors.New("config: unknown preset")

type Config struct {
	Preset      string                      `yaml:"preset,omitempty"`
	Params      seir.Params                 `yaml:"params"`
	Initial     *seir.Initial               `yaml:"initial,omitempty"`
	Deload      modulation.Deload           `yaml:"deload"`
	Microlesion modulation.Microlesion      `yaml:"microlesion"`
	Decay       modulation.SensitivityDecay `yaml:"decay"`
	Constant    *scenario.ConstantLoad      `yaml:"constant,omitempty"`
	Sweep       sweep.Spec                  `yaml:"sweep"`
	Output      OutputConfig                `yaml:"output"`
}

type OutputConfig struct {
	Dir      string `yaml:"dir"`
	LogLevel string `yaml:"log_level"`
}

func DefaultConfig() *Config {
	return &Config{
		Params:      seir.DefaultParams(),
		Deload:      modulation.DefaultDeload(),
		Microlesion: modulation.DefaultMicrolesion(),
		Decay:       modulation.DefaultSensitivityDecay(),
		Sweep:       sweep.DefaultSpec(),
		Output: OutputConfig{
			Dir:      DefaultDataDir,
			LogLevel: DefaultLogLevel,
		},
	}
}

// Load reads a YAML config. Fields absent from the file keep their
// defaults; a preset named in the file is applied first so explicit params
// override it. Missing initial stocks default to 0.99, 0.01, 0 and M0.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var head struct {
		Preset  string    `yaml:"preset"`
		Initial yaml.Node `yaml:"initial"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if head.Preset != "" {
		if err := cfg.ApplyPreset(head.Preset); err != nil {
			return nil, err
		}
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	// Stocks left out of an initial block start from the resolved params.
	if head.Initial.Kind == yaml.MappingNode {
		init := cfg.Params.DefaultInitial()
		if err := head.Initial.Decode(&init); err != nil {
			return nil, fmt.Errorf("parse %s: initial: %w", path, err)
		}
		cfg.Initial = &init
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyPreset replaces the parameter set with a named preset.
func (c *Config) ApplyPreset(name string) error {
	p, ok := Presets[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPreset, name)
	}
	c.Preset = name
	c.Params = p.Params
	return nil
}

func (c *Config) Validate() error {
	if err := c.Params.Validate(); err != nil {
		return fmt.Errorf("params: %w", err)
	}
	if _, _, err := c.Deload.Effects(); err != nil {
		return fmt.Errorf("deload: %w", err)
	}
	if _, err := c.Microlesion.Pulse(); err != nil {
		return fmt.Errorf("microlesion: %w", err)
	}
	if err := c.Sweep.Validate(c.Params); err != nil {
		return fmt.Errorf("sweep: %w", err)
	}
	return nil
}

// Builder returns a scenario builder carrying the configured modulation.
func (c *Config) Builder() *scenario.Builder {
	b := scenario.NewBuilder()
	b.Deload = c.Deload
	b.Lesion = c.Microlesion
	b.Decay = c.Decay
	if c.Constant != nil {
		load := *c.Constant
		b.Constant = &load
	}
	if c.Initial != nil {
		init := *c.Initial
		b.Initial = &init
	}
	return b
}

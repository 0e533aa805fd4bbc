package pathway

import (
	"errors"
	"fmt"
	"io"

	"github.com/zoobzio/clockz"
	"gopkg.in/yaml.v3"
)

// Config describes a definition. It is the target of functional options and
// can also be loaded from YAML:
//
//	name: publish-article
//	result_key: article
//	context:
//	  locale: en
//	plugins:
//	  - defaults
//	  - name: auth
//	    settings:
//	      key: role
//	      allow: [admin, editor]
//
// Installers receive the Config before steps are declared and may adjust it.
type Config struct {
	Context   map[Key]any    `yaml:"context,omitempty"`
	Clock     clockz.Clock   `yaml:"-"`
	Registry  *Registry      `yaml:"-"`
	Name      Name           `yaml:"name"`
	ResultKey Key            `yaml:"result_key,omitempty"`
	Plugins   []PluginConfig `yaml:"plugins,omitempty"`
	attached  []Plugin
}

// PluginConfig names a registered plugin and its settings. In YAML a plugin
// may be given as a bare name or as a mapping.
type PluginConfig struct {
	Settings map[string]any `yaml:"settings,omitempty"`
	Name     Name           `yaml:"name"`
}

// UnmarshalYAML accepts either a scalar name or a mapping.
func (p *PluginConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		p.Name = node.Value
		return nil
	}
	type plain PluginConfig
	var decoded plain
	if err := node.Decode(&decoded); err != nil {
		return err
	}
	*p = PluginConfig(decoded)
	return nil
}

// ErrMissingName is returned when a configuration has no definition name.
var ErrMissingName = errors.New("config: name is required")

// ParseConfig decodes a YAML configuration.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfig reads and decodes a YAML configuration from r.
func LoadConfig(r io.Reader) (*Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Name == "" {
		return ErrMissingName
	}
	for i, p := range c.Plugins {
		if p.Name == "" {
			return fmt.Errorf("config: plugin #%d: %w", i+1, ErrEmptyName)
		}
	}
	return nil
}

// DefineFromConfig builds a Definition from cfg. Plugin names are resolved
// through reg, or DefaultRegistry when reg is nil. Options are applied after
// the configuration values.
func DefineFromConfig(cfg *Config, reg *Registry, setup func(*Builder), opts ...Option) (*Definition, error) {
	if cfg == nil {
		return nil, ErrMissingName
	}
	if setup == nil {
		return nil, fmt.Errorf("define %q: %w", cfg.Name, ErrNilSetup)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if reg == nil {
		reg = cfg.Registry
	}
	copied := &Config{
		Name:      cfg.Name,
		ResultKey: cfg.ResultKey,
		Plugins:   append([]PluginConfig(nil), cfg.Plugins...),
		Registry:  reg,
		Clock:     cfg.Clock,
	}
	if cfg.Context != nil {
		WithContext(cfg.Context)(copied)
	}
	return build(copied, nil, setup, opts)
}

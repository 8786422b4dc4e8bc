// Package config holds all Insight Atlas core configuration. Configuration
// mistakes are programming errors, so every Validate method fails loudly
// instead of degrading — unlike the normalizer, which never fails on input.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath overrides the config file location when set.
const EnvConfigPath = "ATLAS_CONFIG"

// Config holds all core configuration.
type Config struct {
	// Governor is the streaming budget policy.
	Governor GovernorPolicy `yaml:"governor"`

	// Profiles are the named pacing profiles available to callers.
	Profiles map[string]PacingProfile `yaml:"profiles"`

	// DefaultProfile names the profile used when the caller does not choose.
	DefaultProfile string `yaml:"default_profile"`

	// Logging controls structured log output.
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig controls the zap-backed category logger.
type LoggingConfig struct {
	Debug      bool     `yaml:"debug"`
	JSONFormat bool     `yaml:"json_format"`
	Categories []string `yaml:"categories"` // empty = all categories enabled
}

// Default returns the shipped configuration: built-in profiles and a governor
// policy sized for a medium-length guide.
func Default() Config {
	return Config{
		Governor:       DefaultGovernorPolicy(),
		Profiles:       BuiltinProfiles(),
		DefaultProfile: "deep-dive",
		Logging:        LoggingConfig{Debug: false, JSONFormat: true},
	}
}

// Load reads configuration from path, or from $ATLAS_CONFIG when path is
// empty, falling back to Default when neither is set. The loaded config is
// validated; an invalid file is an error, never a silent fallback.
func Load(path string) (Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the whole configuration tree.
func (c Config) Validate() error {
	if err := c.Governor.Validate(); err != nil {
		return fmt.Errorf("governor: %w", err)
	}
	if len(c.Profiles) == 0 {
		return fmt.Errorf("at least one pacing profile required")
	}
	for name, p := range c.Profiles {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("profile %q: %w", name, err)
		}
	}
	if c.DefaultProfile != "" {
		if _, ok := c.Profiles[c.DefaultProfile]; !ok {
			return fmt.Errorf("default_profile %q not defined", c.DefaultProfile)
		}
	}
	return nil
}

// Profile resolves a profile by name, using the default when name is empty.
func (c Config) Profile(name string) (PacingProfile, error) {
	if name == "" {
		name = c.DefaultProfile
	}
	p, ok := c.Profiles[name]
	if !ok {
		return PacingProfile{}, fmt.Errorf("unknown pacing profile %q", name)
	}
	return p, nil
}

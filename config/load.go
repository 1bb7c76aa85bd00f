package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Load reads a TOML configuration file on top of the defaults and validates
// the result. A service with a missing signing or encryption key must not
// start.
func Load(path string) (*Config, error) {
	cfg := NewDefaultConfig()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
		}
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return cfg, nil
}

package config

import "fmt"

// Load builds a Config from defaults, the TOML file at path (skipped when empty
// or missing) and the environment, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" && FileExists(path) {
		fc, err := LoadFileConfig(path)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		if err := ApplyFileConfig(&cfg, fc); err != nil {
			return nil, err
		}
	}
	if err := ApplyEnvConfig(&cfg); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

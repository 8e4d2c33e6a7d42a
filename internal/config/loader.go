package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// DefaultPath is used when neither an explicit path nor LEVI_CONFIG is set.
const DefaultPath = "./levi.json"

// Option adjusts a loaded configuration before validation, e.g. to apply
// command-line flags.
type Option func(*Config)

// Load builds the configuration with priority options > ENV > file > defaults.
//
// The file is path, else $LEVI_CONFIG, else DefaultPath; JSON and YAML are
// both accepted. A missing DefaultPath is not an error, a missing named file is.
func Load(path string, opts ...Option) (*Config, error) {
	cfg := Default()

	file, required := configFile(path)
	switch _, err := os.Stat(file); {
	case err == nil:
		if err := cleanenv.ReadConfig(file, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", file, err)
		}
	case required || !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("config: file %s: %w", file, err)
	default:
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

func configFile(path string) (file string, required bool) {
	if path != "" {
		return path, true
	}
	if env := os.Getenv("LEVI_CONFIG"); env != "" {
		return env, true
	}
	return DefaultPath, false
}

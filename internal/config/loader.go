package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvConfigPath names the YAML file to load when no path is given
	EnvConfigPath = "GTG_CONFIG"
	envPrefix     = "GTG_"
)

// Load builds a Config by layering, low to high precedence:
//  1. defaults (New)
//  2. YAML file at path, or at $GTG_CONFIG when path is empty
//  3. env (prefix GTG_, e.g. GTG_SEASON, GTG_CACHE_DIR)
//
// The roster can only come from the file; without one the default roster is used.
// The result is not validated, so callers can still apply flag overrides first.
func Load(_ context.Context, path string) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrLoadConfig, path, err)
		}
	}

	// GTG_CACHE_DIR -> cache_dir; underscores are kept to match the koanf tags.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: reading environment: %v", ErrLoadConfig, err)
	}

	// Decode the roster into an empty slice so a configured roster replaces the
	// default one instead of being merged into it element by element.
	cfg := *base
	cfg.Players = nil
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}
	if len(cfg.Players) == 0 {
		cfg.Players = base.Players
	}

	return &cfg, nil
}

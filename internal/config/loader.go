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

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if AMPGSTI_CONFIG is set
//  3. env (prefix AMPGSTI_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("AMPGSTI_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: AMPGSTI_ADDR, AMPGSTI_QUEUE_SIZE, ...
	// Map env keys like AMPGSTI_QUEUE_SIZE -> queue_size (flat keys).
	envProvider := env.Provider("AMPGSTI_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "ampgsti_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if cfg.OrgWeight < 0 || cfg.ConsumerWeight < 0 {
		return fmt.Errorf("%w: blend weights must be non-negative", ErrInvalidConfig)
	}
	if cfg.ConsumerBacklashFloor <= 0 {
		return fmt.Errorf("%w: consumer_backlash_floor must be positive", ErrInvalidConfig)
	}
	if cfg.MomentumLookback < 2 {
		return fmt.Errorf("%w: momentum_lookback must be at least 2", ErrInvalidConfig)
	}
	if cfg.ConfidenceHighMins <= 0 || cfg.ConfidenceModerateMins <= cfg.ConfidenceHighMins {
		return fmt.Errorf("%w: confidence windows must be increasing and positive", ErrInvalidConfig)
	}
	return nil
}

package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// SeedConfig holds the defaults for the seed command's flags
type SeedConfig struct {
	Reset          bool
	CSV            string
	TimeoutSeconds int
}

var seedEnvBindings = map[string]string{
	"Seed.Reset":          "SEED_RESET",
	"Seed.CSV":            "SEED_CSV",
	"Seed.TimeoutSeconds": "SEED_TIMEOUT_SECONDS",
}

// LoadSeed reads the seed command settings from the environment
func LoadSeed() (*SeedConfig, error) {
	return loadSeed(viper.New())
}

func loadSeed(v *viper.Viper) (*SeedConfig, error) {
	v.SetDefault("Seed.Reset", false)
	v.SetDefault("Seed.CSV", "")
	v.SetDefault("Seed.TimeoutSeconds", 60)

	for key, env := range seedEnvBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	cfg := &SeedConfig{
		Reset:          v.GetBool("Seed.Reset"),
		CSV:            strings.TrimSpace(v.GetString("Seed.CSV")),
		TimeoutSeconds: v.GetInt("Seed.TimeoutSeconds"),
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 60
	}
	return cfg, nil
}

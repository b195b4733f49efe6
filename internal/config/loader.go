package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "BIRDIE_"

const defaultEnvFile = ".env"

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if BIRDIE_CONFIG is set
//  3. env (prefix BIRDIE_), including variables from BIRDIE_ENV_FILE or
//     ./.env; variables already set in the process win over the file
func Load(ctx context.Context) (*Config, error) {
	cfg := New()
	k := koanf.New(".")

	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	if path := os.Getenv(EnvPrefix + "CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// BIRDIE_GROUP_SET_THRESHOLD -> group_set_threshold
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	if err := cfg.Validate(ctx); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadEnvFile exports a dotenv file into the process environment. A missing
// ./.env is fine; a missing BIRDIE_ENV_FILE is not.
func loadEnvFile() error {
	path, explicit := os.LookupEnv(EnvPrefix + "ENV_FILE")
	if !explicit {
		path = defaultEnvFile
	}
	err := godotenv.Load(path)
	if err == nil || (!explicit && errors.Is(err, fs.ErrNotExist)) {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
}

package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// DefaultEnvFile is read by Load when present.
const DefaultEnvFile = ".env"

// Load parses environment variables into the provided struct.
// The struct should use `env` tags to define mappings. Variables from
// DefaultEnvFile are loaded first; variables already set in the process
// environment take precedence.
//
// Example:
//
//	type Config struct {
//	    Port     int    `env:"HTTP_PORT" envDefault:"8080"`
//	    LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
//	}
func Load(cfg any) error {
	if err := LoadEnvFile(DefaultEnvFile); err != nil {
		return err
	}
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// LoadEnvFile loads KEY=VALUE pairs from the given files into the process
// environment without overriding existing variables. Missing files are ignored.
func LoadEnvFile(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load env file %s: %w", p, err)
		}
	}
	return nil
}

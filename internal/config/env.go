package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment variable read by LoadEnvironment.
const EnvPrefix = "SPLITTER"

// Environment holds defaults that can be set from the environment, e.g.
// SPLITTER_WORKERS=4. Command-line flags take precedence.
type Environment struct {
	Workers   int    `envconfig:"WORKERS" default:"1"`
	BatchSize int    `envconfig:"BATCH_SIZE" default:"256"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"warn"`
	Preset    string `envconfig:"PRESET" default:"partners"`
}

// LoadEnvironment reads the SPLITTER_* variables.
func LoadEnvironment() (*Environment, error) {
	var env Environment
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	return &env, nil
}

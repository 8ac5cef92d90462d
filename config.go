package queryval

import (
	"errors"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the explicit configuration value object for the validation layer.
// It replaces ambient settings discovery: load it once at startup and pass it
// to validators via WithConfig and to NewLogger.
type Config struct {
	// IncludeAll controls the default pass-through of undeclared parameters.
	IncludeAll bool `env:"QUERYVAL_INCLUDE_ALL" envDefault:"true"`

	// LogFormat selects the error-log output format: "json" or "text".
	LogFormat string `env:"QUERYVAL_LOG_FORMAT" envDefault:"json"`

	// LogLevel selects the minimum log level: "debug", "info", "warn" or "error".
	LogLevel string `env:"QUERYVAL_LOG_LEVEL" envDefault:"error"`
}

var defaultEnvLoaded sync.Once

// LoadConfig reads Config from environment variables, loading a .env file
// first if one exists.
func LoadConfig() (Config, error) {
	defaultEnvLoaded.Do(func() {
		// The .env file is optional.
		_ = godotenv.Load()
	})

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	return cfg, nil
}

// MustLoadConfig works like LoadConfig but panics on failure, for
// configurations required at startup.
func MustLoadConfig() Config {
	cfg, err := LoadConfig()
	if err != nil {
		panic(err)
	}
	return cfg
}

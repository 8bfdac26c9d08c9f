package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var defaultEnvLoaded sync.Once

// Load parses environment variables into the provided struct based on
// `env` field tags. The default .env file is loaded once per process
// before the first parse; a missing file is fine.
//
// Example:
//
//	type JournalConfig struct {
//	    RedisURL string `env:"JOURNAL_REDIS_URL,required"`
//	    Cap      int    `env:"JOURNAL_CAP" envDefault:"10000"`
//	}
//
//	var cfg JournalConfig
//	if err := config.Load(&cfg); err != nil {
//	    // handle error
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	defaultEnvLoaded.Do(func() {
		// The .env file might not exist and that's ok.
		_ = godotenv.Load()
	})

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// LoadFrom loads the named env files into the process environment before
// parsing. Unlike the default .env, a missing named file is an error.
func LoadFrom[T any](v *T, filenames ...string) error {
	if v == nil {
		return ErrNilPointer
	}

	if err := godotenv.Load(filenames...); err != nil {
		return errors.Join(ErrEnvFileNotFound, err)
	}

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
// Use it for configuration the process cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

// Package config loads typed configuration structs from environment
// variables, with optional .env file support for local development.
//
// It wraps github.com/caarlos0/env/v11 for struct tag parsing and
// github.com/joho/godotenv for env files. The default .env file is read
// once per process before the first parse; a missing file is not an
// error.
//
// # Basic Usage
//
//	type GatewayConfig struct {
//	    BaseURL       string        `env:"SMS_GATEWAY_URL,required"`
//	    SigningSecret string        `env:"SMS_GATEWAY_SECRET,required"`
//	    SendTimeout   time.Duration `env:"SMS_GATEWAY_TIMEOUT" envDefault:"10s"`
//	}
//
//	var cfg GatewayConfig
//	if err := config.Load(&cfg); err != nil {
//	    // handle error
//	}
//
// MustLoad panics instead of returning an error, for configuration the
// process cannot start without. LoadFrom reads explicit env files first,
// which keeps fixtures next to tests.
package config

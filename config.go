package elastictiny

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds client connection parameters with environment variable
// mapping, for zero-config initialization in services.
type Config struct {
	Addresses   []string      `env:"ELASTIC_ADDRESSES,required"`
	Username    string        `env:"ELASTIC_USERNAME"`
	Password    string        `env:"ELASTIC_PASSWORD"`
	MaxAttempts int           `env:"ELASTIC_MAX_ATTEMPTS" envDefault:"1"`
	Timeout     time.Duration `env:"ELASTIC_TIMEOUT" envDefault:"30s"`
}

// NewFromConfig constructs a Client from a Config. Additional options are
// applied after the config-derived ones and take precedence.
func NewFromConfig(cfg Config, options ...Option) (*Client, error) {
	opts := []Option{
		WithMaxAttempts(cfg.MaxAttempts),
		WithTimeout(cfg.Timeout),
	}
	if cfg.Username != "" || cfg.Password != "" {
		opts = append(opts, WithBasicAuth(cfg.Username, cfg.Password))
	}
	opts = append(opts, options...)
	return New(cfg.Addresses, opts...)
}

// NewFromEnv constructs a Client from ELASTIC_* environment variables.
func NewFromEnv(options ...Option) (*Client, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, &ClientError{
			Type:    ErrorTypeValidation,
			Message: "parsing environment configuration",
			Cause:   err,
		}
	}
	return NewFromConfig(cfg, options...)
}

package config

import (
	"fmt"
	"time"

	"github.com/cablehead/docker-init/internal/domain"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e ValidationError) Unwrap() error {
	return domain.ErrInvalidConfig
}

// Validate checks the configuration for errors.
func Validate(cfg *Config) error {
	if cfg.GracePeriod != "" {
		d, err := time.ParseDuration(cfg.GracePeriod)
		if err != nil {
			return ValidationError{Field: "grace_period", Message: fmt.Sprintf("invalid duration %q", cfg.GracePeriod)}
		}
		if d <= 0 {
			return ValidationError{Field: "grace_period", Message: "must be positive"}
		}
	}
	return nil
}

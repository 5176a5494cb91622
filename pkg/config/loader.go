package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load fills cfg from the process environment using its `env` tags.
//
//	type HTTPConfig struct {
//	    Port        int    `env:"HTTP_PORT" envDefault:"8080"`
//	    Environment string `env:"ENVIRONMENT" envDefault:"development"`
//	}
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

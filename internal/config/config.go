package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the runtime settings, bound from the environment.
type Config struct {
	ListenAddr string `envconfig:"POS_LISTEN_ADDR" default:":8081"`
	DataFile   string `envconfig:"POS_DATA_FILE" default:"pos.db"`
}

// Load reads an optional .env file and binds the environment into a
// Config. A missing .env is fine; the defaults cover local use.
func Load() (Config, error) {
	_ = godotenv.Load(".env")

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to process environment config: %w", err)
	}
	return cfg, nil
}

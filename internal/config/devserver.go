package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DevServer holds settings for the local development service.
type DevServer struct {
	Addr     string `env:"GACHA_DEV_ADDR"  envDefault:":8080"`
	PoolFile string `env:"GACHA_DEV_POOL"`
	Grant    int    `env:"GACHA_DEV_GRANT" envDefault:"10"`
	Seed     uint64 `env:"GACHA_DEV_SEED"` // 0 draws from crypto/rand
	LogLevel string `env:"GACHA_DEV_LOG_LEVEL" envDefault:"info"`
}

// LoadDevServer reads dotEnv (if present) and GACHA_DEV_* variables.
func LoadDevServer(dotEnv string) (DevServer, error) {
	if dotEnv != "" {
		if err := godotenv.Load(dotEnv); err != nil && !errors.Is(err, os.ErrNotExist) {
			return DevServer{}, fmt.Errorf("config.LoadDevServer: read %s: %w", dotEnv, err)
		}
	}
	var cfg DevServer
	if err := env.Parse(&cfg); err != nil {
		return DevServer{}, fmt.Errorf("config.LoadDevServer: parse env: %w", err)
	}
	if cfg.Grant < 0 {
		return DevServer{}, fmt.Errorf("config.LoadDevServer: grant must not be negative, got %d", cfg.Grant)
	}
	return cfg, nil
}

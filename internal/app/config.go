package app

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/adanyl0v/go-task-api/internal/config"
)

// MustReadConfig reads the YAML file at path overlaid with the environment.
// An empty path reads the environment alone.
func MustReadConfig(path string) {
	cfg, err := config.NewReader(path).Read()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("path", path).
			Msg("failed to read config")
		panic(err)
	}
	globalLogger.Info().
		Str("env", cfg.Env).
		Str("storage_driver", cfg.Storage.Driver).
		Msg("read config")

	config.SetGlobal(cfg)
}

package app

import (
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/adanyl0v/construct-tasks/internal/config"
)

// configPathEnv points at an optional yaml/json/toml config file.
const configPathEnv = "CONFIG_PATH"

func MustReadEnv() {
	path := os.Getenv(configPathEnv)

	cfg, err := config.NewReader(path).Read()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("config_path", path).
			Msg("failed to read config")
		panic(err)
	}
	globalLogger.Info().
		Str("env", cfg.Env).
		Str("config_path", path).
		Msg("read config")

	config.SetGlobal(cfg)
}

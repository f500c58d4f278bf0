package config

import "time"

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

var globalConfig *Config

func Global() *Config {
	return globalConfig
}

func SetGlobal(cfg *Config) {
	globalConfig = cfg
}

type Config struct {
	Env      string         `yaml:"env" env:"ENV" env-default:"prod"`
	Postgres PostgresConfig `yaml:"postgres"`
	HTTP     HTTPConfig     `yaml:"http"`
}

type PostgresConfig struct {
	URL            string        `yaml:"url" env:"POSTGRES_URL" env-required:"true"`
	MaxConns       int32         `yaml:"max_conns" env:"POSTGRES_MAX_CONNS" env-default:"10"`
	MinConns       int32         `yaml:"min_conns" env:"POSTGRES_MIN_CONNS" env-default:"0"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"POSTGRES_CONNECT_TIMEOUT" env-default:"10s"`
	PingTimeout    time.Duration `yaml:"ping_timeout" env:"POSTGRES_PING_TIMEOUT" env-default:"10s"`
}

type HTTPConfig struct {
	Host              string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port              string        `yaml:"port" env:"HTTP_PORT" env-default:"8000"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`

	// Browsers from other origins are rejected by the CORS policy.
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins" env:"HTTP_CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"https://construct-pro-frontend.vercel.app"`
}

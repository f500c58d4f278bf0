package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

type Reader interface {
	Read() (*Config, error)
}

type EnvReader struct{}

func NewEnvReader() EnvReader {
	return EnvReader{}
}

func (EnvReader) Read() (*Config, error) {
	cfg := new(Config)
	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// FileReader reads a yaml, json, toml or env file and then
// lets environment variables override the values found in it.
type FileReader struct {
	path string
}

func NewFileReader(path string) FileReader {
	return FileReader{path: path}
}

func (r FileReader) Read() (*Config, error) {
	cfg := new(Config)
	err := cleanenv.ReadConfig(r.path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", r.path, err)
	}

	return cfg, nil
}

// NewReader picks a FileReader when path is set, otherwise an EnvReader.
func NewReader(path string) Reader {
	if path != "" {
		return NewFileReader(path)
	}
	return NewEnvReader()
}

package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/adanyl0v/go-task-api/internal/storage"
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

	return validate(cfg)
}

// FileReader reads a YAML file overlaid with environment variables.
// A missing file falls back to the environment alone.
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
		if errors.Is(err, fs.ErrNotExist) {
			return NewEnvReader().Read()
		}
		return nil, fmt.Errorf("failed to read config %q: %w", r.path, err)
	}

	return validate(cfg)
}

// NewReader returns a FileReader for a non-empty path, else an EnvReader.
func NewReader(path string) Reader {
	if path == "" {
		return NewEnvReader()
	}
	return NewFileReader(path)
}

func validate(cfg *Config) (*Config, error) {
	switch cfg.Env {
	case EnvDev, EnvProd, EnvLocal:
	default:
		return nil, fmt.Errorf("unknown env: %q", cfg.Env)
	}

	switch cfg.Storage.Driver {
	case storage.DriverPostgres:
		if cfg.Postgres.Username == "" || cfg.Postgres.Database == "" {
			return nil, errors.New("postgres username and database are required")
		}
	case storage.DriverSQLite:
		if cfg.Storage.SQLitePath == "" {
			return nil, errors.New("sqlite path is required")
		}
	default:
		return nil, fmt.Errorf("unknown storage driver: %q", cfg.Storage.Driver)
	}

	if (cfg.Admin.Username == "") != (cfg.Admin.Password == "") {
		return nil, errors.New("admin username and password must be set together")
	}
	return cfg, nil
}

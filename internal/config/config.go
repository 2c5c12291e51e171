// Package config loads runtime settings from environment variables or an
// optional YAML file. The gateway credential only ever enters through here;
// it is never hard-coded.
package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Storage backend names.
const (
	StorageSQLite = "sqlite"
	StorageFile   = "file"
)

// Config holds all runtime settings.
type Config struct {
	Addr     string `yaml:"addr"      env:"CURIO_ADDR"      env-default:":8080"`
	Storage  string `yaml:"storage"   env:"CURIO_STORAGE"   env-default:"sqlite"`
	DBPath   string `yaml:"db_path"   env:"CURIO_DB_PATH"   env-default:"curio.sqlite3"`
	DataPath string `yaml:"data_path" env:"CURIO_DATA_PATH" env-default:"curio.json"`
	PhotoDir string `yaml:"photo_dir" env:"CURIO_PHOTO_DIR" env-default:"photos"`
	LogPath  string `yaml:"log_path"  env:"CURIO_LOG_PATH"`

	Gateway Gateway `yaml:"gateway"`
}

// Gateway configures the price-suggestion endpoint. Suggestions are
// disabled when the base URL is empty.
type Gateway struct {
	BaseURL     string  `yaml:"base_url"    env:"CURIO_GATEWAY_URL"`
	APIKey      string  `yaml:"api_key"     env:"CURIO_GATEWAY_API_KEY"`
	Model       string  `yaml:"model"       env:"CURIO_GATEWAY_MODEL"       env-default:"gpt-3.5-turbo-instruct"`
	Temperature float64 `yaml:"temperature" env:"CURIO_GATEWAY_TEMPERATURE" env-default:"0.2"`
	MaxTokens   int     `yaml:"max_tokens"  env:"CURIO_GATEWAY_MAX_TOKENS"  env-default:"256"`
}

// Load reads config from the YAML file at path, or from environment
// variables when path is empty.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config: file %s not found", path)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if cfg.Storage != StorageSQLite && cfg.Storage != StorageFile {
		return nil, fmt.Errorf("config: unknown storage backend %q", cfg.Storage)
	}

	return &cfg, nil
}

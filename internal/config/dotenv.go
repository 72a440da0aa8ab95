package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file. If path is
// empty it loads ".env" in the current directory. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// Load builds the application configuration: .env file first (when
// present), then a YAML config file (when given), then environment
// variables on top. Environment values win over file values.
func Load(envPath, filePath string) (AppConfig, error) {
	if err := LoadDotEnv(envPath); err != nil {
		return AppConfig{}, err
	}

	envCfg, err := LoadFromEnv()
	if err != nil {
		return AppConfig{}, err
	}
	cfg := envCfg.ToAppConfig()

	if filePath != "" {
		fileCfg, err := LoadFile(filePath)
		if err != nil {
			return AppConfig{}, err
		}
		cfg = fileCfg.merge(cfg, envCfg)
	}

	return cfg, nil
}

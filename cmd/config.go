package cmd

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config is the content of a configuration file.
//
//	pairs: [GBP-USD, EUR-JPY]
//	start: 2020-01
//	amount: "1000"
//	overrides:
//	  EUR: INSEE-001759970
type Config struct {
	Pairs       []string          `yaml:"pairs"`
	Start       string            `yaml:"start"`
	Baseline    string            `yaml:"baseline"`
	Amount      string            `yaml:"amount"`
	Output      string            `yaml:"output"`
	FX          string            `yaml:"fx"`
	MaxGap      *int              `yaml:"max_gap"`
	Parallelism int               `yaml:"parallelism"`
	Overrides   map[string]string `yaml:"overrides"`
}

// LoadConfig reads a YAML configuration file, an empty path is an empty configuration.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Env holds the settings read from the environment.
type Env struct {
	FREDAPIKey  string `envconfig:"FRED_API_KEY"`
	EODHDAPIKey string `envconfig:"EODHD_API_KEY"`
	CacheDir    string `envconfig:"RV_CACHE_DIR"`
}

// LoadEnv reads the environment.
func LoadEnv() (Env, error) {
	var env Env
	if err := envconfig.Process("", &env); err != nil {
		return Env{}, fmt.Errorf("read environment: %w", err)
	}
	return env, nil
}

// first returns the first non empty value.
func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

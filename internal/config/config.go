package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Demo     DemoConfig     `yaml:"demo"`
}

type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// DatabaseConfig selects the record store. Mode picks between the local
// sqlite file and the cloud DSN; nothing else about the two variants is
// shared.
type DatabaseConfig struct {
	Mode  string     `yaml:"mode"` // local or cloud
	Local LocalStore `yaml:"local"`
	Cloud CloudStore `yaml:"cloud"`
}

type LocalStore struct {
	Path string `yaml:"path"`
}

type CloudStore struct {
	DSN  string `yaml:"dsn"`
	Name string `yaml:"name"`
}

// DemoConfig controls the placeholder feed that stands in for real traffic
// inspection, and how long generated rows are kept.
type DemoConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Retention Duration `yaml:"retention"`
}

// Duration accepts Go duration strings like "24h" in the config file.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

var AppConfig *Config

func Load(path string) (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port: 8989,
			Host: "0.0.0.0",
		},
		Database: DatabaseConfig{
			Mode: "local",
			Local: LocalStore{
				Path: "./data/ngfw-panel.db",
			},
			Cloud: CloudStore{
				Name: "ngfw",
			},
		},
		Demo: DemoConfig{
			Enabled:   true,
			Retention: Duration(24 * time.Hour),
		},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(config)
			AppConfig = config
			return config, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	applyEnv(config)
	AppConfig = config
	return config, nil
}

func applyEnv(config *Config) {
	if port := os.Getenv("NGFW_PANEL_PORT"); port != "" {
		var p int
		if _, err := fmt.Sscanf(port, "%d", &p); err == nil {
			config.Server.Port = p
		}
	}
	if mode := os.Getenv("NGFW_PANEL_DB_MODE"); mode != "" {
		config.Database.Mode = mode
	}
	if path := os.Getenv("NGFW_PANEL_DB_PATH"); path != "" {
		config.Database.Local.Path = path
	}
	if dsn := os.Getenv("NGFW_PANEL_DB_DSN"); dsn != "" {
		config.Database.Cloud.DSN = dsn
	}
	if name := os.Getenv("NGFW_PANEL_DB_NAME"); name != "" {
		config.Database.Cloud.Name = name
	}
}

package config

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v4"
)

type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Workspace WorkspaceConfig `yaml:"workspace"`
	Redis     RedisConfig     `yaml:"redis"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Traffic   TrafficConfig   `yaml:"traffic"`
	Auth      AuthConfig      `yaml:"auth"`
	Images    ImagesConfig    `yaml:"images"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type DatabaseConfig struct {
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	Name    string `yaml:"name"`
	User    string `yaml:"user"`
	SSLMode string `yaml:"ssl_mode"`
	// SeedDemo populates empty tables with the default user and demo
	// orders on startup. For local and demo environments only.
	SeedDemo bool `yaml:"seed_demo"`
}

// WorkspaceConfig points at the identity service that issues short-lived
// database credentials. Host+Token set means local development with a
// personal access token; InstanceName selects the managed instance.
type WorkspaceConfig struct {
	Host         string `yaml:"host"`
	Token        string `yaml:"token"`
	InstanceName string `yaml:"instance_name"`
}

type RedisConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type KafkaConfig struct {
	Host                string `yaml:"host"`
	Port                int    `yaml:"port"`
	ShipmentEventsTopic string `yaml:"shipment_events_topic"`
	ConsumerGroup       string `yaml:"consumer_group"`
}

type TrafficConfig struct {
	BaseURL     string `yaml:"base_url"`
	AccessToken string `yaml:"access_token"`
}

type AuthConfig struct {
	// VerifyPasswords defaults to true; set to false only for demo setups.
	VerifyPasswords   *bool `yaml:"verify_passwords"`
	SessionTTLSeconds int   `yaml:"session_ttl_seconds"`
}

type ImagesConfig struct {
	Dir      string `yaml:"dir"`
	Fallback string `yaml:"fallback"`
}

func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	config.ApplyEnv()
	return &config, nil
}

// ApplyEnv overlays environment configuration on top of file values.
// For database parameters the PG* keys win, the DB_* keys are the
// fallback, and the file value is used only when neither is set.
func (c *Config) ApplyEnv() {
	if v := firstEnv("PGHOST", "DB_HOST"); v != "" {
		c.Database.Host = v
	}
	if v := firstEnv("PGDATABASE", "DB_NAME"); v != "" {
		c.Database.Name = v
	}
	if v := firstEnv("PGUSER", "DB_USER"); v != "" {
		c.Database.User = v
	}
	if v := os.Getenv("LAKEBASE_INSTANCE_NAME"); v != "" {
		c.Workspace.InstanceName = v
	}
	if v := os.Getenv("DATABRICKS_HOST"); v != "" {
		c.Workspace.Host = v
	}
	if v := os.Getenv("DATABRICKS_TOKEN"); v != "" {
		c.Workspace.Token = v
	}
	if v := os.Getenv("MAPBOX_TOKEN"); v != "" {
		c.Traffic.AccessToken = v
	}
}

func (c *Config) VerifyPasswords() bool {
	if c.Auth.VerifyPasswords == nil {
		return true
	}
	return *c.Auth.VerifyPasswords
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

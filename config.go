package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the service configuration
type Config struct {
	Service    ServiceConfig    `yaml:"service"`
	Postgres   PostgresConfig   `yaml:"postgres"`
	ClickHouse ClickHouseConfig `yaml:"clickhouse"`
	Tables     []string         `yaml:"tables"`
	Enrichment EnrichmentConfig `yaml:"enrichment"`
}

// ServiceConfig holds service-level settings
type ServiceConfig struct {
	Name                string `yaml:"name"`
	HealthPort          int    `yaml:"health_port"`
	SyncIntervalSeconds int    `yaml:"sync_interval_seconds"`
}

// PostgresConfig holds the transactional source connection settings
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	Schema   string `yaml:"schema"`
}

// ClickHouseConfig holds the analytical warehouse connection settings
type ClickHouseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// EnrichmentConfig holds settings for the account-status enrichment path
type EnrichmentConfig struct {
	// TargetTable is the one synced table that gets the derived
	// account_status column appended.
	TargetTable string `yaml:"target_table"`
	// ActivityTable is the warehouse table holding completed activity
	// events, keyed by client_fk with a created_at timestamp.
	ActivityTable string `yaml:"activity_table"`
	// ClientTable is the warehouse reference table holding onboarded_at
	// per client id.
	ClientTable  string `yaml:"client_table"`
	KeyChunkSize int    `yaml:"key_chunk_size"`
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyDefaults()
	config.applyEnvOverrides()

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Postgres.Schema == "" {
		c.Postgres.Schema = "public"
	}
	if c.Postgres.SSLMode == "" {
		c.Postgres.SSLMode = "disable"
	}
	if c.Enrichment.KeyChunkSize == 0 {
		c.Enrichment.KeyChunkSize = 1000
	}
}

// applyEnvOverrides lets deployments keep credentials out of the config file
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("POSTGRES_PASSWORD"); v != "" {
		c.Postgres.Password = v
	}
	if v := os.Getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.ClickHouse.Password = v
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Service.SyncIntervalSeconds < 1 {
		return fmt.Errorf("sync_interval_seconds must be at least 1")
	}

	if len(c.Tables) == 0 {
		return fmt.Errorf("at least one table must be configured")
	}

	if c.Enrichment.KeyChunkSize < 1 {
		return fmt.Errorf("key_chunk_size must be at least 1")
	}

	if c.Enrichment.TargetTable != "" {
		if c.Enrichment.ActivityTable == "" {
			return fmt.Errorf("enrichment activity_table must be set when target_table is set")
		}
		if c.Enrichment.ClientTable == "" {
			return fmt.Errorf("enrichment client_table must be set when target_table is set")
		}
	}

	return nil
}

// SyncInterval returns the inter-cycle delay as a Duration
func (c *Config) SyncInterval() time.Duration {
	return time.Duration(c.Service.SyncIntervalSeconds) * time.Second
}

// ConnectionString builds a PostgreSQL connection string
func (p *PostgresConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		p.Host, p.Port, p.Database, p.User, p.Password, p.SSLMode,
	)
}

// Addr returns the ClickHouse native-protocol address
func (c *ClickHouseConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

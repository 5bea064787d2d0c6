// Package config loads application configuration from the environment with
// an optional JSON file underneath it.
package config

import (
	"fmt"

	kJson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds the application configuration. Every field can be set through
// the named environment variable; a JSON config file may provide the same
// keys and the environment wins.
type Config struct {
	// Store selects the storage backend: "jsonfile", "sqlite", or "postgres".
	// Environment variable: FINANCEFLOW_STORE
	Store string `koanf:"FINANCEFLOW_STORE"`

	// DataFile is the path to the JSON data file (jsonfile backend).
	// Environment variable: FINANCEFLOW_DATA_FILE
	DataFile string `koanf:"FINANCEFLOW_DATA_FILE"`

	// SQLitePath is the path to the SQLite database (sqlite backend).
	// Environment variable: FINANCEFLOW_SQLITE_PATH
	SQLitePath string `koanf:"FINANCEFLOW_SQLITE_PATH"`

	// Region is the ISO region code used to pick the display currency.
	// Environment variable: FINANCEFLOW_REGION
	Region string `koanf:"FINANCEFLOW_REGION"`

	// Locale is a BCP-47 tag consulted when Region is unset.
	// Environment variable: FINANCEFLOW_LOCALE
	Locale string `koanf:"FINANCEFLOW_LOCALE"`

	// BatchSize is the number of transactions buffered before a flush.
	// Environment variable: FINANCEFLOW_BATCH_SIZE
	BatchSize int `koanf:"FINANCEFLOW_BATCH_SIZE"`

	// FlushInterval is the seconds between automatic flushes.
	// Environment variable: FINANCEFLOW_FLUSH_INTERVAL
	FlushInterval int `koanf:"FINANCEFLOW_FLUSH_INTERVAL"`

	// PostgreSQL configuration (postgres backend).
	Postgres PostgresConfig
}

// PostgresConfig holds PostgreSQL connection configuration.
type PostgresConfig struct {
	Host     string `koanf:"POSTGRES_HOST"`
	Port     int    `koanf:"POSTGRES_PORT"`
	Database string `koanf:"POSTGRES_DB"`
	User     string `koanf:"POSTGRES_USER"`
	Password string `koanf:"POSTGRES_PASSWORD"`
	SSLMode  string `koanf:"POSTGRES_SSLMODE"`
	MaxConns int    `koanf:"POSTGRES_MAX_CONNS"`
}

// Load reads configuration from the optional JSON file at path, then from
// environment variables. An empty path skips the file layer.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), kJson.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", nil), nil); err != nil {
		return nil, fmt.Errorf("loading config from environment: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf", FlatPaths: true}); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Store == "" {
		c.Store = "jsonfile"
	}
	if c.DataFile == "" {
		c.DataFile = "data/financeflow.json"
	}
	if c.SQLitePath == "" {
		c.SQLitePath = "data/financeflow.db"
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 10
	}
	if c.FlushInterval <= 0 {
		c.FlushInterval = 30
	}
}

package config

import (
	"fmt"
	"strings"
)

// Store backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

type StoreConfig struct {
	Backend  string         `koanf:"backend"`
	Database DatabaseConfig `koanf:"database"`
	SQLite   SQLiteConfig   `koanf:"sqlite"`
}

type SQLiteConfig struct {
	Path string `koanf:"path"`
}

// String returns a string representation of the store configuration.
func (c *StoreConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Store ---\n")
	b.WriteString(fmt.Sprintf("  backend: %s\n", c.Backend))
	switch c.Backend {
	case BackendPostgres:
		b.WriteString(c.Database.String())
	case BackendSQLite:
		b.WriteString(fmt.Sprintf("  sqlite.path: %s\n", c.SQLite.Path))
	}
	return b.String()
}

func (c *StoreConfig) Validate() error {
	switch c.Backend {
	case BackendMemory:
		return nil
	case BackendPostgres:
		return c.Database.Validate()
	case BackendSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("sqlite path is not configured")
		}
		return nil
	default:
		return fmt.Errorf("unknown store backend: %q", c.Backend)
	}
}

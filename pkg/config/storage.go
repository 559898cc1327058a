package config

import (
	"fmt"
	"strings"
)

const (
	StorageBackendPostgres = "postgres"
	StorageBackendMemory   = "memory"
)

// StorageConfig selects where products and users are kept.
type StorageConfig struct {
	Backend string `koanf:"backend"`
}

// String returns a string representation of the storage configuration.
func (c *StorageConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Storage ---\n")
	b.WriteString(fmt.Sprintf("  backend: %s\n", c.Backend))
	return b.String()
}

// UsesPostgres reports whether the PostgreSQL backend is selected. An empty backend means postgres.
func (c *StorageConfig) UsesPostgres() bool {
	return c.Backend == "" || c.Backend == StorageBackendPostgres
}

func (c *StorageConfig) Validate() error {
	switch c.Backend {
	case "", StorageBackendPostgres, StorageBackendMemory:
		return nil
	default:
		return fmt.Errorf("unknown storage backend %q, expected %q or %q",
			c.Backend, StorageBackendPostgres, StorageBackendMemory)
	}
}

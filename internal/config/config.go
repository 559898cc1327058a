package config

import (
	"fmt"
	"strings"

	"github.com/grocerydesk/catalog/pkg/config"
	"github.com/grocerydesk/catalog/pkg/config/configloader"
)

var _ configloader.Validator = (*Config)(nil)

// ServiceName is the configuration namespace, environment variables use the CATALOG_ prefix.
const ServiceName = "catalog"

type Config struct {
	HTTPServer config.HTTPConfig       `koanf:"server"`
	Database   config.DatabaseConfig   `koanf:"database"`
	Storage    config.StorageConfig    `koanf:"storage"`
	Log        config.LogConfig        `koanf:"log"`
	PProf      config.PProfConfig      `koanf:"pprof"`
	GRPC       config.GrpcServerConfig `koanf:"grpc"`
	Shutdown   config.ShutdownConfig   `koanf:"shutdown"`
	Auth       config.AuthConfig       `koanf:"auth"`
	IdP        config.IdP              `koanf:"idp"`
	Telemetry  config.TelemetryConfig  `koanf:"telemetry"`
	Metrics    config.MetricsConfig    `koanf:"metrics"`
	NATS       config.NATSConfig       `koanf:"nats"`
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString(c.HTTPServer.String())
	b.WriteString(c.GRPC.String())
	b.WriteString(c.Storage.String())
	if c.Storage.UsesPostgres() {
		b.WriteString(c.Database.String())
	}
	b.WriteString(c.Auth.String())
	b.WriteString(c.IdP.String())
	b.WriteString(c.NATS.String())
	b.WriteString(c.Log.String())
	b.WriteString(c.PProf.String())
	b.WriteString(c.Telemetry.String())
	b.WriteString(c.Metrics.String())
	b.WriteString(c.Shutdown.String())
	return b.String()
}

// Validate checks if the configuration values are valid.
// The database section is only checked when the postgres backend is selected.
func (c *Config) Validate() error {
	validators := []configloader.Validator{
		&c.HTTPServer,
		&c.Storage,
		&c.Log,
		&c.PProf,
		&c.GRPC,
		&c.Shutdown,
		&c.Auth,
		&c.IdP,
		&c.Telemetry,
		&c.Metrics,
		&c.NATS,
	}
	if c.Storage.UsesPostgres() {
		validators = append(validators, &c.Database)
	}
	for _, v := range validators {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
	}
	return nil
}

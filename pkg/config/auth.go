package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthConfig controls token issuing and the bearer gate in front of the product API.
type AuthConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Secret   string        `koanf:"secret"`
	Issuer   string        `koanf:"issuer"`
	TokenTTL time.Duration `koanf:"tokenttl"`
}

// minSecretLength is the shortest HMAC secret accepted for HS256.
const minSecretLength = 32

// String returns a string representation of the auth configuration. The secret is never printed.
func (c *AuthConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Auth ---\n")
	b.WriteString(fmt.Sprintf("  enabled: %t\n", c.Enabled))
	b.WriteString(fmt.Sprintf("  issuer: %s\n", c.Issuer))
	b.WriteString(fmt.Sprintf("  tokenttl: %s\n", c.TokenTTL))
	return b.String()
}

func (c *AuthConfig) Validate() error {
	if len(c.Secret) < minSecretLength {
		return fmt.Errorf("auth secret must be at least %d characters long", minSecretLength)
	}
	if c.Issuer == "" {
		return fmt.Errorf("auth issuer is not configured")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("auth token TTL must be greater than zero")
	}
	return nil
}

package config

import (
	"fmt"
	"strings"
	"time"
)

// TokenStoreMode selects where bearer tokens are kept between commands.
type TokenStoreMode string

const (
	// TokenStoreFile keeps tokens in a JSON file under the user config dir.
	TokenStoreFile TokenStoreMode = "file"
	// TokenStoreMemory keeps tokens only for the lifetime of the process.
	TokenStoreMemory TokenStoreMode = "memory"
	// TokenStoreRedis keeps tokens in Redis, shared across console hosts.
	TokenStoreRedis TokenStoreMode = "redis"
)

// UnmarshalText implements encoding.TextUnmarshaler for TokenStoreMode.
func (m *TokenStoreMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "file", "memory", "redis":
		*m = TokenStoreMode(v)
		return nil
	default:
		return fmt.Errorf("invalid TokenStoreMode: %q (valid options: file, memory, redis)", v)
	}
}

// AuthConfig groups session and token storage configuration.
type AuthConfig struct {
	// TokenStore selects the durable token tier.
	TokenStore TokenStoreMode `env:"TURNO_TOKEN_STORE" envDefault:"file"`

	// TokenFile overrides the token file location when TokenStore is "file".
	// Empty means the conventional path under the user config directory.
	TokenFile string `env:"TURNO_TOKEN_FILE" envDefault:""`

	// RedisKey is the Redis key holding the token pair when TokenStore is "redis".
	RedisKey string `env:"TURNO_TOKEN_REDIS_KEY" envDefault:"turno:tokens"`

	// ExpiryCheckInterval is how often the session re-checks the stored
	// token's expiry.
	ExpiryCheckInterval time.Duration `env:"TURNO_EXPIRY_CHECK_INTERVAL" envDefault:"5m"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.TokenStore == "" {
		a.TokenStore = TokenStoreFile
	}
	if a.ExpiryCheckInterval <= 0 {
		a.ExpiryCheckInterval = 5 * time.Minute
	}
}

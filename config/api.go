package config

import "time"

// APIConfig contains the backend API configuration.
type APIConfig struct {
	// BaseURL is the root of the backend REST API.
	BaseURL string `env:"TURNO_API_BASE_URL" envDefault:"http://localhost:3000/api"`

	// Timeout is the transport-level timeout for a single request.
	Timeout time.Duration `env:"TURNO_API_TIMEOUT" envDefault:"30s"`
}

// Sanitize applies guardrails to API configuration values.
func (a *APIConfig) Sanitize() {
	if a.Timeout <= 0 {
		a.Timeout = 30 * time.Second
	}
}

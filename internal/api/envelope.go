package api

import (
	"encoding/json"

	apperrors "github.com/turnohq/turno-admin/internal/errors"
)

// Envelope is the standard wrapper the backend puts around every response.
type Envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data,omitempty"`
	Error     string          `json:"error,omitempty"`
	Timestamp string          `json:"timestamp"`
}

// decodeEnvelope parses a response body, rejecting anything that is not a
// JSON object. The envelope shape is validated here once so callers can
// trust Data afterwards.
func decodeEnvelope(body []byte) (Envelope, error) {
	var env Envelope
	if len(body) == 0 {
		return env, apperrors.Internal("empty response body")
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return env, apperrors.Wrap(err, apperrors.ErrCodeInternal, "decode response envelope")
	}
	return env, nil
}

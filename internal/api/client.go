package api

// Package api provides the HTTP client for the turno backend. Every call
// carries the bearer token when one is available, a generated request ID,
// and decodes the standard response envelope before any payload is trusted.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/turnohq/turno-admin/internal/errors"
)

// TokenSource supplies the bearer token for outgoing requests.
// Returning ok=false means no usable token exists; the request goes out
// unauthenticated and the backend decides.
type TokenSource interface {
	BearerToken(ctx context.Context) (token string, ok bool)
}

// TokenSourceFunc adapts a function to the TokenSource interface.
type TokenSourceFunc func(ctx context.Context) (string, bool)

func (f TokenSourceFunc) BearerToken(ctx context.Context) (string, bool) { return f(ctx) }

// Config groups dependencies for Client.
type Config struct {
	// BaseURL is the API root, e.g. "https://api.example.com/api".
	BaseURL string
	// Tokens supplies bearer tokens. Optional; requests go out anonymous without it.
	Tokens TokenSource
	// HTTPClient overrides the transport. Optional, defaults to a 30s-timeout client.
	HTTPClient *http.Client
	// Logger is used for request-level debug logging. Optional.
	Logger *slog.Logger
}

// Client issues JSON requests against the backend and unwraps the
// {success, message, data, error, timestamp} envelope.
type Client struct {
	baseURL string
	tokens  TokenSource
	http    *http.Client
	logger  *slog.Logger
}

// New constructs a Client from Config.
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("api: base URL is required")
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return nil, fmt.Errorf("api: base URL must be http or https: %q", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	logger := cfg.Logger
	if logger != nil {
		logger = logger.With("component", "api_client")
	}

	return &Client{
		baseURL: base,
		tokens:  cfg.Tokens,
		http:    httpClient,
		logger:  logger,
	}, nil
}

// Get issues a GET request and decodes the envelope data into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if !strings.HasPrefix(path, "/") {
		return apperrors.Validationf("request path must start with '/': %q", path)
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeInternal, "marshal request body")
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "build request")
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if tok, ok := c.tokens.BearerToken(ctx); ok {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.DebugContext(ctx, "request failed",
				"method", method, "path", path, "request_id", requestID, "error", err)
		}
		return apperrors.Network(fmt.Sprintf("%s %s", method, path), err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.Network(fmt.Sprintf("read response for %s %s", method, path), err)
	}

	if c.logger != nil {
		c.logger.DebugContext(ctx, "request complete",
			"method", method, "path", path, "status", resp.StatusCode,
			"request_id", requestID, "duration_ms", time.Since(start).Milliseconds())
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, data)
	}

	env, err := decodeEnvelope(data)
	if err != nil {
		return err
	}
	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = env.Message
		}
		if msg == "" {
			msg = "request rejected"
		}
		return apperrors.API(resp.StatusCode, msg)
	}

	if out == nil {
		return nil
	}
	if len(env.Data) == 0 {
		return apperrors.Internalf("response for %s %s has no data", method, path)
	}
	if unmarshalErr := json.Unmarshal(env.Data, out); unmarshalErr != nil {
		return apperrors.Wrapf(unmarshalErr, apperrors.ErrCodeInternal,
			"decode response data for %s %s", method, path)
	}
	return nil
}

// statusError maps a non-2xx response to an AppError, extracting the API's
// own message when the body carries the standard envelope.
func statusError(status int, body []byte) error {
	msg := fmt.Sprintf("HTTP error %d", status)
	if env, err := decodeEnvelope(body); err == nil {
		switch {
		case env.Error != "":
			msg = env.Error
		case env.Message != "":
			msg = env.Message
		}
	}

	appErr := &apperrors.AppError{Message: msg, HTTPStatus: status}
	switch status {
	case http.StatusUnauthorized:
		appErr.Code = apperrors.ErrCodeUnauthenticated
	case http.StatusForbidden:
		appErr.Code = apperrors.ErrCodeAccessDenied
	case http.StatusNotFound:
		appErr.Code = apperrors.ErrCodeNotFound
	default:
		appErr.Code = apperrors.ErrCodeAPI
	}
	return appErr
}

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/turnohq/turno-admin/internal/domain/auth"
	apperrors "github.com/turnohq/turno-admin/internal/errors"
	"github.com/turnohq/turno-admin/internal/testutil"
)

func staticTokens(tok string) TokenSource {
	return TokenSourceFunc(func(context.Context) (string, bool) { return tok, tok != "" })
}

func newTestClient(t *testing.T, baseURL string, tokens TokenSource) *Client {
	t.Helper()
	client, err := New(Config{BaseURL: baseURL, Tokens: tokens})
	require.NoError(t, err)
	return client
}

func TestNewValidatesBaseURL(t *testing.T) {
	_, err := New(Config{BaseURL: ""})
	assert.Error(t, err)

	_, err = New(Config{BaseURL: "localhost:3000"})
	assert.Error(t, err)

	client, err := New(Config{BaseURL: "http://localhost:3000/api/"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/api", client.baseURL)
}

func TestClientAttachesHeaders(t *testing.T) {
	var got http.Header
	var gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		gotMethod = r.Method
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"ok","data":{},"timestamp":"2026-01-01T00:00:00Z"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, staticTokens("tok-123"))

	var out struct{}
	require.NoError(t, client.Post(context.Background(), "/things", map[string]string{"a": "b"}, &out))

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "Bearer tok-123", got.Get("Authorization"))
	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))

	_, err := uuid.Parse(got.Get("X-Request-ID"))
	assert.NoError(t, err, "X-Request-ID should be a UUID")
}

func TestClientAnonymousWithoutToken(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(`{"success":true,"message":"ok","data":{},"timestamp":"2026-01-01T00:00:00Z"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, staticTokens(""))
	require.NoError(t, client.Get(context.Background(), "/things", nil))
	assert.Empty(t, got.Get("Authorization"))
}

func TestClientRejectsRelativePath(t *testing.T) {
	client := newTestClient(t, "http://localhost:3000", nil)

	err := client.Get(context.Background(), "things", nil)
	assert.Equal(t, apperrors.ErrCodeValidation, apperrors.GetCode(err))
}

func TestClientStatusErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode apperrors.ErrorCode
		wantMsg  string
	}{
		{
			name:     "unauthorized with envelope error",
			status:   http.StatusUnauthorized,
			body:     `{"success":false,"message":"","error":"invalid credentials","timestamp":"t"}`,
			wantCode: apperrors.ErrCodeUnauthenticated,
			wantMsg:  "invalid credentials",
		},
		{
			name:     "forbidden with envelope message",
			status:   http.StatusForbidden,
			body:     `{"success":false,"message":"admin role required","timestamp":"t"}`,
			wantCode: apperrors.ErrCodeAccessDenied,
			wantMsg:  "admin role required",
		},
		{
			name:     "not found",
			status:   http.StatusNotFound,
			body:     `{"success":false,"error":"user not found","timestamp":"t"}`,
			wantCode: apperrors.ErrCodeNotFound,
			wantMsg:  "user not found",
		},
		{
			name:     "server error without envelope",
			status:   http.StatusInternalServerError,
			body:     `<html>nope</html>`,
			wantCode: apperrors.ErrCodeAPI,
			wantMsg:  "HTTP error 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := newTestClient(t, server.URL, nil)
			err := client.Get(context.Background(), "/whatever", nil)
			require.Error(t, err)

			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.wantCode, appErr.Code)
			assert.Equal(t, tt.wantMsg, appErr.Message)
			assert.Equal(t, tt.status, appErr.HTTPStatus)
		})
	}
}

func TestClientNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	client := newTestClient(t, server.URL, nil)
	err := client.Get(context.Background(), "/things", nil)
	assert.Equal(t, apperrors.ErrCodeNetwork, apperrors.GetCode(err))
}

func TestClientRejectedEnvelope(t *testing.T) {
	// 200 with success=false still counts as a failed request.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error":"nothing to see","timestamp":"t"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, nil)
	err := client.Get(context.Background(), "/things", nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeAPI, apperrors.GetCode(err))
	assert.Contains(t, err.Error(), "nothing to see")
}

func TestClientDecodesData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"message":"ok","data":{"name":"ops"},"timestamp":"t"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, nil)

	var out struct {
		Name string `json:"name"`
	}
	require.NoError(t, client.Get(context.Background(), "/things/1", &out))
	assert.Equal(t, "ops", out.Name)
}

func TestClientMissingData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"message":"ok","timestamp":"t"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, nil)

	var out struct{}
	err := client.Get(context.Background(), "/things", &out)
	assert.Equal(t, apperrors.ErrCodeInternal, apperrors.GetCode(err))
}

func TestLogin(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	client := newTestClient(t, fake.BaseURL(), nil)

	pair, user, err := client.Login(context.Background(), domainauth.Credentials{
		RUT:      "11111111-1",
		Password: "validpass",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	require.NotNil(t, user)
	assert.Equal(t, "user-1", user.ID)
	assert.Contains(t, user.RoleNames(), "employee")
}

func TestLoginInvalidCredentials(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	client := newTestClient(t, fake.BaseURL(), nil)

	_, _, err := client.Login(context.Background(), domainauth.Credentials{
		RUT:      "11111111-1",
		Password: "wrong",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeUnauthenticated, apperrors.GetCode(err))
	assert.Contains(t, err.Error(), "invalid credentials")
}

func TestRegister(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	client := newTestClient(t, fake.BaseURL(), nil)

	pair, user, err := client.Register(context.Background(), domainauth.Registration{
		RUT:       "12345678-5",
		Email:     "new@example.com",
		FirstName: "Nora",
		LastName:  "Paz",
		Password:  "s3cret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	require.NotNil(t, user)
	assert.Equal(t, "new@example.com", user.Email)
}

func TestProfile(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	tok := testutil.MintToken(t, time.Hour)
	fake.AcceptToken(tok)

	client := newTestClient(t, fake.BaseURL(), staticTokens(tok))

	user, err := client.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "employee@example.com", user.Email)
}

func TestProfileUnauthenticated(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	client := newTestClient(t, fake.BaseURL(), nil)

	_, err := client.Profile(context.Background())
	assert.Equal(t, apperrors.ErrCodeUnauthenticated, apperrors.GetCode(err))
}

package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turnohq/turno-admin/config"
	"github.com/turnohq/turno-admin/internal/adapters/filestore"
	domainauth "github.com/turnohq/turno-admin/internal/domain/auth"
	"github.com/turnohq/turno-admin/internal/service"
	"github.com/turnohq/turno-admin/internal/testutil"
)

func TestParseLoginFlags(t *testing.T) {
	opts, err := parseLoginFlags([]string{"-rut", "12.345.678-5", "-remember"})
	require.NoError(t, err)
	assert.Equal(t, "12.345.678-5", opts.RUT)
	assert.True(t, opts.Remember)
	assert.Empty(t, opts.Password)

	_, err = parseLoginFlags(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-rut")
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"a"}, splitList("a"))
	assert.Equal(t, []string{"a", "b"}, splitList("a, b,"))
}

func TestRenderJSONWithQuery(t *testing.T) {
	page := &service.UserPage{
		Users: []domainauth.User{
			{ID: "u1", Email: "one@example.com"},
			{ID: "u2", Email: "two@example.com"},
		},
		Total: 2, Page: 1, Limit: 10,
	}

	var buf bytes.Buffer
	require.NoError(t, renderJSON(&buf, page, "users[].email"))
	assert.JSONEq(t, `["one@example.com","two@example.com"]`, buf.String())
}

func TestRenderJSONRejectsBadQuery(t *testing.T) {
	var buf bytes.Buffer
	err := renderJSON(&buf, map[string]int{"a": 1}, "][")
	assert.Error(t, err)
}

func TestRenderUserTable(t *testing.T) {
	page := &service.UserPage{
		Users: []domainauth.User{{
			ID: "u1", RUT: "12345678-5", FirstName: "Nora", LastName: "Paz",
			Email: "nora@example.com", IsActive: true,
			Roles: []domainauth.Role{{Name: "admin"}},
		}},
		Total: 1, Page: 1, Limit: 10,
	}

	var buf bytes.Buffer
	require.NoError(t, renderUserTable(&buf, page))
	out := buf.String()
	assert.Contains(t, out, "12.345.678-5")
	assert.Contains(t, out, "Nora Paz")
	assert.Contains(t, out, "admin")
	assert.Contains(t, out, "showing 1 of 1 users")
}

func TestRenderShiftTable(t *testing.T) {
	end := time.Date(2026, 8, 10, 17, 0, 0, 0, time.UTC)
	history := &service.ShiftHistory{
		Shifts: []service.Shift{
			{
				ID:        "s1",
				StartTime: time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC),
				EndTime:   &end, Status: service.ShiftStatusCompleted, DurationMinutes: 480,
			},
			{
				ID:        "s2",
				StartTime: time.Date(2026, 8, 12, 9, 0, 0, 0, time.UTC),
				Status:    service.ShiftStatusActive,
			},
		},
		Total: 2,
	}

	var buf bytes.Buffer
	require.NoError(t, renderShiftTable(&buf, history))
	out := buf.String()
	assert.Contains(t, out, "2026-08-10 09:00")
	assert.Contains(t, out, "8h")
	assert.Contains(t, out, "-", "open shift shows a dash for its end")
}

func TestRenderDashboard(t *testing.T) {
	overview := &service.DashboardOverview{
		Summary: service.DashboardSummary{TotalUsers: 12, ActiveShifts: 4},
		RecentShifts: []service.Shift{{
			ID:        "s1",
			StartTime: time.Date(2026, 8, 15, 9, 0, 0, 0, time.UTC),
			Status:    service.ShiftStatusActive,
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, renderDashboard(&buf, overview))
	out := buf.String()
	assert.Contains(t, out, "Total users")
	assert.Contains(t, out, "12")
	assert.Contains(t, out, "Recent shifts:")
}

func TestCommandsHaveDescriptions(t *testing.T) {
	for name, cmd := range commands() {
		assert.Equal(t, name, cmd.name)
		assert.NotEmpty(t, cmd.description, name)
		assert.NotNil(t, cmd.run, name)
	}
}

// A stored token the backend no longer accepts must not fail commands
// outright: the session settles unauthenticated, logout still succeeds and
// login can re-authenticate.
func TestCommandsRecoverFromFailedRestore(t *testing.T) {
	fake := testutil.NewFakeAPI(t)

	// Well-formed and unexpired, but unknown to the backend.
	tokenFile := filepath.Join(t.TempDir(), "tokens.json")
	store, err := filestore.New(tokenFile)
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), domainauth.TokenPair{
		AccessToken: testutil.MintToken(t, time.Hour),
	}))

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config: config.AppConfig{
			API: config.APIConfig{BaseURL: fake.BaseURL(), Timeout: 5 * time.Second},
			Auth: config.AuthConfig{
				TokenStore:          config.TokenStoreFile,
				TokenFile:           tokenFile,
				ExpiryCheckInterval: time.Minute,
			},
		},
	}

	app, ctx, cancel, err := buildApp(cmdCtx)
	require.NoError(t, err)
	defer cancel()
	assert.Equal(t, service.StatusUnauthenticated, app.Session.Current().Status)

	require.NoError(t, runLogout(cmdCtx, nil))

	err = app.Session.Login(ctx, domainauth.Credentials{RUT: "11111111-1", Password: "validpass"})
	require.NoError(t, err)
	assert.True(t, app.Session.Current().Authenticated())
}

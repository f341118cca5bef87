package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turnohq/turno-admin/config"
)

func testConfig() config.AppConfig {
	cfg := config.AppConfig{}
	cfg.API.BaseURL = "http://localhost:3000/api"
	cfg.Auth.TokenStore = config.TokenStoreMemory
	cfg.Sanitize()
	return cfg
}

func TestBuildApp_WiresEverything(t *testing.T) {
	app, err := BuildApp(testConfig(), InitLogger())
	require.NoError(t, err)

	assert.NotNil(t, app.Client)
	assert.NotNil(t, app.Tokens)
	assert.NotNil(t, app.Session)
	assert.NotNil(t, app.Users)
	assert.NotNil(t, app.Roles)
	assert.NotNil(t, app.Permissions)
	assert.NotNil(t, app.Shifts)
	assert.NotNil(t, app.Dashboard)
}

func TestBuildApp_RejectsBadBaseURL(t *testing.T) {
	cfg := testConfig()
	cfg.API.BaseURL = "not a url"

	_, err := BuildApp(cfg, InitLogger())
	assert.Error(t, err)
}

func TestBuildDurableStore_UnknownMode(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.TokenStore = config.TokenStoreMode("vault")

	_, err := buildDurableStore(cfg)
	assert.Error(t, err)
}

func TestLoadConfig_ReadsEnvironment(t *testing.T) {
	t.Setenv("TURNO_API_BASE_URL", "https://api.turno.example/api")
	t.Setenv("TURNO_TOKEN_STORE", "memory")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://api.turno.example/api", cfg.API.BaseURL)
	assert.Equal(t, config.TokenStoreMemory, cfg.Auth.TokenStore)
}

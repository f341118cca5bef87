package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/turnohq/turno-admin/internal/domain/auth"
	"github.com/turnohq/turno-admin/internal/ports"
)

func TestMockAuthAPI_Defaults(t *testing.T) {
	m := NewMockAuthAPI()

	pair, user, err := m.Login(context.Background(), domainauth.Credentials{RUT: "11111111-1", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, "mock-access-token", pair.AccessToken)
	assert.Equal(t, "mock-user-1", user.ID)
	assert.Equal(t, 1, m.LoginCalls)
}

func TestMemoryTokenStore_RoundTrip(t *testing.T) {
	s := NewMemoryTokenStore()
	ctx := context.Background()

	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, ports.ErrNoToken)

	pair := domainauth.TokenPair{AccessToken: "abc", RefreshToken: "def"}
	require.NoError(t, s.Save(ctx, pair))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, pair, got)

	require.NoError(t, s.Clear(ctx))
	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, ports.ErrNoToken)
}

package filestore

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/turnohq/turno-admin/internal/domain/auth"
	"github.com/turnohq/turno-admin/internal/ports"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "turno", "tokens.json")
	store, err := New(path)
	require.NoError(t, err)
	return store, path
}

func TestNewRequiresPath(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, path := newTestStore(t)

	pair := domainauth.TokenPair{AccessToken: "access", RefreshToken: "refresh"}
	require.NoError(t, store.Save(ctx, pair))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, pair, got)

	if runtime.GOOS != "windows" {
		info, statErr := os.Stat(path)
		require.NoError(t, statErr)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}
}

func TestStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	require.NoError(t, store.Save(ctx, domainauth.TokenPair{AccessToken: "first", RefreshToken: "r1"}))
	require.NoError(t, store.Save(ctx, domainauth.TokenPair{AccessToken: "second", RefreshToken: "r2"}))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", got.AccessToken)
}

func TestStoreMissingFile(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, ports.ErrNoToken)
}

func TestStoreCorruptFile(t *testing.T) {
	store, path := newTestStore(t)

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := store.Load(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ports.ErrNoToken)
}

func TestStoreEmptyPairReadsAsAbsent(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	require.NoError(t, store.Save(ctx, domainauth.TokenPair{}))

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, ports.ErrNoToken)
}

func TestStoreClear(t *testing.T) {
	ctx := context.Background()
	store, path := newTestStore(t)

	require.NoError(t, store.Save(ctx, domainauth.TokenPair{AccessToken: "access", RefreshToken: "refresh"}))
	require.NoError(t, store.Clear(ctx))

	_, statErr := os.Stat(path)
	assert.ErrorIs(t, statErr, os.ErrNotExist)

	// Clearing twice is fine.
	assert.NoError(t, store.Clear(ctx))
}

func TestDefaultPath(t *testing.T) {
	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "tokens.json", filepath.Base(path))
	assert.Contains(t, path, "turno")
}

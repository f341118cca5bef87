package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/turnohq/turno-admin/internal/api"
	"github.com/turnohq/turno-admin/internal/testutil"
)

// newFakeClient returns an api.Client wired to a FakeAPI with a valid
// bearer token already accepted, so protected endpoints just work.
func newFakeClient(t *testing.T) (*api.Client, *testutil.FakeAPI) {
	t.Helper()

	fake := testutil.NewFakeAPI(t)
	tok := testutil.MintToken(t, time.Hour)
	fake.AcceptToken(tok)

	client, err := api.New(api.Config{
		BaseURL: fake.BaseURL(),
		Tokens:  api.TokenSourceFunc(func(context.Context) (string, bool) { return tok, true }),
	})
	require.NoError(t, err)
	return client, fake
}

// newAnonymousClient returns an api.Client with no token source at all.
func newAnonymousClient(t *testing.T, baseURL string) *api.Client {
	t.Helper()
	client, err := api.New(api.Config{BaseURL: baseURL})
	require.NoError(t, err)
	return client
}

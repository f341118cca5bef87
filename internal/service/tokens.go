package service

import (
	"context"
	"errors"

	domainauth "github.com/turnohq/turno-admin/internal/domain/auth"
	domaintoken "github.com/turnohq/turno-admin/internal/domain/token"
	"github.com/turnohq/turno-admin/internal/ports"
)

// Tokens combines a durable and a process-scoped token store. "Remember me"
// logins land in the durable tier; everything else lives only as long as
// the process, matching the two browser storage areas of the original
// console.
type Tokens struct {
	durable ports.TokenStore
	scoped  ports.TokenStore
}

// NewTokens constructs the two-tier token component. Both stores are
// required; pass the same store twice to collapse the tiers.
func NewTokens(durable, scoped ports.TokenStore) (*Tokens, error) {
	if durable == nil || scoped == nil {
		return nil, errors.New("both token stores are required")
	}
	return &Tokens{durable: durable, scoped: scoped}, nil
}

// Set stores the pair in the durable tier when persist is true, otherwise in
// the process-scoped tier. The other tier is cleared so Get never resurrects
// a stale pair from a previous login.
func (t *Tokens) Set(ctx context.Context, pair domainauth.TokenPair, persist bool) error {
	if persist {
		if err := t.scoped.Clear(ctx); err != nil {
			return err
		}
		return t.durable.Save(ctx, pair)
	}
	if err := t.durable.Clear(ctx); err != nil {
		return err
	}
	return t.scoped.Save(ctx, pair)
}

// Get returns the stored pair, checking the durable tier first.
// ports.ErrNoToken means neither tier holds a token.
func (t *Tokens) Get(ctx context.Context) (domainauth.TokenPair, error) {
	pair, err := t.durable.Load(ctx)
	if err == nil {
		return pair, nil
	}
	if !errors.Is(err, ports.ErrNoToken) {
		return domainauth.TokenPair{}, err
	}
	return t.scoped.Load(ctx)
}

// Clear removes tokens from both tiers. Both clears run even when the first
// fails.
func (t *Tokens) Clear(ctx context.Context) error {
	return errors.Join(t.durable.Clear(ctx), t.scoped.Clear(ctx))
}

// BearerToken implements api.TokenSource: it returns the stored access token
// only when one exists and its exp claim has not lapsed. An expired or
// undecodable token is treated as absent, so it is never attached to a
// request.
func (t *Tokens) BearerToken(ctx context.Context) (string, bool) {
	pair, err := t.Get(ctx)
	if err != nil {
		return "", false
	}
	if domaintoken.IsExpired(pair.AccessToken) {
		return "", false
	}
	return pair.AccessToken, true
}

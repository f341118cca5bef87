// Package redisstore provides a Redis-backed token store for deployments
// where several console hosts share one operator session. The entry TTL
// follows the access token's own expiry so Redis drops lapsed tokens on
// its own.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/turnohq/turno-admin/internal/domain/auth"
	domaintoken "github.com/turnohq/turno-admin/internal/domain/token"
	"github.com/turnohq/turno-admin/internal/ports"
)

const defaultKey = "turno:tokens"

// Store keeps the token pair under a single Redis key.
type Store struct {
	client redis.UniversalClient
	key    string
}

// New creates a Redis token store using the default key.
func New(client redis.UniversalClient) *Store {
	return &Store{client: client, key: defaultKey}
}

// NewWithKey creates a Redis token store with a custom key, letting several
// profiles share one Redis instance.
func NewWithKey(client redis.UniversalClient, key string) *Store {
	if key == "" {
		key = defaultKey
	}
	return &Store{client: client, key: key}
}

func (s *Store) Save(ctx context.Context, pair domainauth.TokenPair) error {
	if pair.Empty() {
		return errors.New("token pair cannot be empty")
	}

	data, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("marshal tokens: %w", err)
	}

	var ttl time.Duration
	if exp, expErr := domaintoken.Expiry(pair.AccessToken); expErr == nil {
		ttl = time.Until(exp)
		if ttl <= 0 {
			// Token is already expired, don't save it
			return errors.New("token is expired")
		}
	}

	return s.client.Set(ctx, s.key, data, ttl).Err()
}

func (s *Store) Load(ctx context.Context) (domainauth.TokenPair, error) {
	data, err := s.client.Get(ctx, s.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.TokenPair{}, ports.ErrNoToken
		}
		return domainauth.TokenPair{}, fmt.Errorf("redis get: %w", err)
	}

	var pair domainauth.TokenPair
	if unmarshalErr := json.Unmarshal([]byte(data), &pair); unmarshalErr != nil {
		return domainauth.TokenPair{}, fmt.Errorf("unmarshal tokens: %w", unmarshalErr)
	}

	// The key TTL normally evicts lapsed pairs; clear any that slip through.
	if domaintoken.IsExpired(pair.AccessToken) {
		if delErr := s.Clear(ctx); delErr != nil {
			return domainauth.TokenPair{}, fmt.Errorf("cleanup expired tokens: %w", delErr)
		}
		return domainauth.TokenPair{}, ports.ErrNoToken
	}

	return pair, nil
}

func (s *Store) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}

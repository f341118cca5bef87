// Package filestore provides a durable, file-backed token store. The file
// holds the accessToken/refreshToken pair as JSON and is created with 0600
// permissions since it contains live credentials.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	domainauth "github.com/turnohq/turno-admin/internal/domain/auth"
	"github.com/turnohq/turno-admin/internal/ports"
)

// Store persists a token pair at a fixed path.
type Store struct {
	mu   sync.Mutex
	path string
}

// New creates a file-backed token store at path. The parent directory is
// created on first Save, not here.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("filestore: path is required")
	}
	return &Store{path: path}, nil
}

// DefaultPath returns the conventional token file location under the user's
// config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "turno", "tokens.json"), nil
}

func (s *Store) Save(_ context.Context, pair domainauth.TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}

	data, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("marshal tokens: %w", err)
	}

	// Write-then-rename so a crash mid-write never leaves a truncated file.
	tmp := s.path + ".tmp"
	if writeErr := os.WriteFile(tmp, data, 0o600); writeErr != nil {
		return fmt.Errorf("write token file: %w", writeErr)
	}
	if renameErr := os.Rename(tmp, s.path); renameErr != nil {
		return fmt.Errorf("replace token file: %w", renameErr)
	}
	return nil
}

func (s *Store) Load(_ context.Context) (domainauth.TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domainauth.TokenPair{}, ports.ErrNoToken
		}
		return domainauth.TokenPair{}, fmt.Errorf("read token file: %w", err)
	}

	var pair domainauth.TokenPair
	if unmarshalErr := json.Unmarshal(data, &pair); unmarshalErr != nil {
		return domainauth.TokenPair{}, fmt.Errorf("unmarshal token file: %w", unmarshalErr)
	}
	if pair.Empty() {
		return domainauth.TokenPair{}, ports.ErrNoToken
	}
	return pair, nil
}

func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}

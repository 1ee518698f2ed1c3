package session

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Store holds the session token, persisted to a single file so it survives
// between invocations. It is the only writer of the token; every API call
// reads it through the api.TokenSource interface.
type Store struct {
	mu    sync.Mutex
	path  string
	token string
}

func NewStore(path string) *Store {
	s := &Store{path: path}
	if b, err := os.ReadFile(path); err == nil {
		s.token = strings.TrimSpace(string(b))
	}
	return s
}

// Token returns the current session token, or "" when there is no session.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Store) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(err, "failed to create token directory")
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0o600); err != nil {
		return errors.Wrap(err, "failed to persist token")
	}
	s.token = token
	return nil
}

// Clear forgets the token in memory and on disk. A missing file is fine.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to remove token file")
	}
	return nil
}

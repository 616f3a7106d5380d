// Package credstore persists the bearer credential between runs, the way a
// browser client would keep it in a cookie pair (token + expiry marker).
package credstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gopkg.in/yaml.v3"
)

type Store struct {
	path string
	mu   sync.Mutex
}

type credentialFile struct {
	Token     string `yaml:"token"`
	ExpiresAt int64  `yaml:"expires_at,omitempty"`
}

func New(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("credstore: path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create credential dir: %w", err)
	}
	return &Store{path: path}, nil
}

// Save writes the token and its expiry marker. A zero expiresAt falls back
// to the token's own exp claim when one is present.
func (s *Store) Save(token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if expiresAt.IsZero() {
		expiresAt = expiryFromClaims(token)
	}

	file := credentialFile{Token: token}
	if !expiresAt.IsZero() {
		file.ExpiresAt = expiresAt.Unix()
	}

	data, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

// Token returns the stored token, expired or not. Whether a stale token is
// still honored is the server's call; the session manager recovers from a
// rejected one via CheckAuth.
func (s *Store) Token() (string, bool) {
	file, ok := s.load()
	if !ok || file.Token == "" {
		return "", false
	}
	return file.Token, true
}

// Subject resolves the user id from the stored token's sub claim.
func (s *Store) Subject() (int64, bool) {
	token, ok := s.Token()
	if !ok {
		return 0, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return 0, false
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Expired reports whether the stored expiry marker has passed. A missing
// marker counts as expired.
func (s *Store) Expired() bool {
	file, ok := s.load()
	if !ok || file.ExpiresAt == 0 {
		return true
	}
	return time.Now().Unix() >= file.ExpiresAt
}

// Clear removes the credential file. Clearing an absent file is not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}

func (s *Store) load() (credentialFile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return credentialFile{}, false
	}
	var file credentialFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return credentialFile{}, false
	}
	return file, true
}

func expiryFromClaims(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

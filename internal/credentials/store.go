// Package credentials persists the CLI's server settings and bearer token in a
// TOML file readable only by its owner. A token past its expiry is treated as absent.
package credentials

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/golang-jwt/jwt/v5"

	"github.com/grand-thief-cash/todolist/infra/application/components/http_client"
)

const (
	fileMode = 0o600
	dirMode  = 0o700

	DefaultBaseURL = "http://localhost:8080"
)

var ErrNoCredential = errors.New("no stored credential")

type Credential struct {
	Username  string    `toml:"username"`
	Token     string    `toml:"token"`
	ExpiresAt time.Time `toml:"expires_at"`
}

type File struct {
	Server http_client.HTTPClientConfig `toml:"server"`
	Auth   Credential                   `toml:"auth"`
}

type Store struct {
	path string
	now  func() time.Time
}

// DefaultPath is <user config dir>/todolist/client.toml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "todolist", "client.toml"), nil
}

func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

func (s *Store) Path() string { return s.path }

// Read returns the file contents; a missing file yields defaults.
func (s *Store) Read() (File, error) {
	f := File{Server: http_client.HTTPClientConfig{BaseURL: DefaultBaseURL}}
	if _, err := toml.DecodeFile(s.path, &f); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return f, nil
		}
		return f, fmt.Errorf("read %s: %w", s.path, err)
	}
	if f.Server.BaseURL == "" {
		f.Server.BaseURL = DefaultBaseURL
	}
	return f, nil
}

// Write replaces the file atomically with mode 0600.
func (s *Store) Write(f File) error {
	if err := os.MkdirAll(filepath.Dir(s.path), dirMode); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".client-*.toml")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(fileMode); err != nil {
		tmp.Close()
		return err
	}
	if err := toml.NewEncoder(tmp).Encode(f); err != nil {
		tmp.Close()
		return fmt.Errorf("encode %s: %w", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

// Save stores a credential. A zero ExpiresAt is filled from the token's exp claim.
func (s *Store) Save(c Credential) error {
	if c.ExpiresAt.IsZero() {
		if exp, ok := tokenExpiry(c.Token); ok {
			c.ExpiresAt = exp
		}
	}
	f, err := s.Read()
	if err != nil {
		return err
	}
	f.Auth = c
	return s.Write(f)
}

// Load returns the stored credential, or ErrNoCredential when none is usable.
func (s *Store) Load() (Credential, error) {
	f, err := s.Read()
	if err != nil {
		return Credential{}, err
	}
	c := f.Auth
	if c.Token == "" {
		return Credential{}, ErrNoCredential
	}
	exp := c.ExpiresAt
	if exp.IsZero() {
		exp, _ = tokenExpiry(c.Token)
	}
	if !exp.IsZero() && !s.now().Before(exp) {
		return Credential{}, fmt.Errorf("%w: token expired at %s", ErrNoCredential, exp.Format(time.RFC3339))
	}
	return c, nil
}

// Token adapts Load to the (token, ok) shape the task list controller expects.
func (s *Store) Token() (string, bool) {
	c, err := s.Load()
	if err != nil {
		return "", false
	}
	return c.Token, true
}

// Clear drops the credential but keeps the server settings.
func (s *Store) Clear() error {
	f, err := s.Read()
	if err != nil {
		return err
	}
	if f.Auth == (Credential{}) {
		return nil
	}
	f.Auth = Credential{}
	return s.Write(f)
}

// tokenExpiry reads exp without verifying the signature; the server remains the authority.
func tokenExpiry(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

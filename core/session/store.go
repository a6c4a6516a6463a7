// Package session owns the persisted auth state: the token + user pair and
// the coarse authentication lifecycle built on top of it.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/somalms/soma/core"
	"github.com/somalms/soma/core/user"
)

// Store is a file-backed two-entry store: the auth token and the serialized
// user record. Every read path is tolerant of corruption and self-heals by
// clearing the file rather than erroring out.
//
// Invariant: after any public call, token and user are either both present or
// both absent.
type Store struct {
	mu     sync.Mutex
	path   string
	logger core.Logger
}

type storedSession struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user,omitempty"`
}

func NewStore(path string, logger core.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// Token returns the stored auth token, or "" when absent.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read().Token
}

// User returns the stored user record, or nil when absent.
// A malformed stored record clears the session and returns nil.
func (s *Store) User() *user.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.read()
	if len(data.User) == 0 {
		return nil
	}
	var usr user.User
	if err := json.Unmarshal(data.User, &usr); err != nil {
		s.logger.Warn("clearing corrupt stored user", err)
		s.clear()
		return nil
	}
	return &usr
}

// SaveAuth persists the token and user atomically.
func (s *Store) SaveAuth(token string, usr user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token == "" {
		return errors.New("refusing to save session without a token")
	}
	rawUsr, err := json.Marshal(usr)
	if err != nil {
		return errors.Wrap(err, "marshalling user")
	}
	raw, err := json.Marshal(storedSession{Token: token, User: rawUsr})
	if err != nil {
		return errors.Wrap(err, "marshalling session")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(err, "creating session dir")
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return errors.Wrap(err, "writing session file")
	}
	return errors.Wrap(os.Rename(tmp, s.path), "replacing session file")
}

// Logout clears both entries.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear()
}

// IsLoggedIn requires token, user, user ID and user role to all be present;
// any partial state is treated as corrupt and cleared.
func (s *Store) IsLoggedIn() bool {
	s.mu.Lock()
	data := s.read()
	s.mu.Unlock()

	if data.Token == "" && len(data.User) == 0 {
		return false
	}

	usr := s.User() // re-reads; also self-heals on malformed user JSON
	if data.Token == "" || usr == nil || usr.ID == 0 || usr.Role == "" {
		s.mu.Lock()
		s.clear()
		s.mu.Unlock()
		return false
	}
	return true
}

// read loads the stored session, clearing the file on any corruption.
// Callers must hold s.mu.
func (s *Store) read() storedSession {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("clearing unreadable session file", err)
			s.clear()
		}
		return storedSession{}
	}
	var data storedSession
	if err := json.Unmarshal(raw, &data); err != nil {
		s.logger.Warn("clearing corrupt session file", err)
		s.clear()
		return storedSession{}
	}
	return data
}

func (s *Store) clear() {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		s.logger.Error("removing session file", err)
	}
}

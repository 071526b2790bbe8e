package services

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/project-launch/project-launch-be/model"
)

// SessionStore persists the single signed-in user to a file so sessions
// survive restarts. The stored record never contains the password.
type SessionStore struct {
	path string

	mu sync.Mutex
}

func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path}
}

// Save replaces the current session with user.
func (s *SessionStore) Save(user *model.User) error {
	if user == nil {
		return errors.New("cannot save a nil session user")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.MarshalIndent(user.WithoutPassword(), "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o644)
}

// Get returns the current session user, or nil when signed out.
func (s *SessionStore) Get() (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var user model.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Clear signs the user out. Clearing an absent session is a no-op.
func (s *SessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

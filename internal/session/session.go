// Package session holds the logged-in user of the command-line client. The
// session is set by Login, cleared by Logout and checked by Require before
// any command that reads or writes user data.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/smartnote/core/internal/domain/entities"
)

// ErrNotLoggedIn is returned by Require when no session is active
var ErrNotLoggedIn = errors.New("not logged in: run `smartnote login` first")

// Authenticator checks credentials against the API
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*entities.Profile, error)
}

// State is the persisted session
type State struct {
	UserID     string    `yaml:"user_id"`
	Username   string    `yaml:"username"`
	Email      string    `yaml:"email"`
	LoggedInAt time.Time `yaml:"logged_in_at"`
}

// Manager owns the session lifecycle and its file
type Manager struct {
	path    string
	auth    Authenticator
	now     func() time.Time
	current *State
}

// Open loads the session stored at path, if any
func Open(path string, auth Authenticator) (*Manager, error) {
	m := &Manager{path: path, auth: auth, now: time.Now}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return m, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var state State
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse session %s: %w", path, err)
	}
	if state.UserID != "" {
		m.current = &state
	}
	return m, nil
}

// Login authenticates and persists the new session
func (m *Manager) Login(ctx context.Context, email, password string) (*State, error) {
	profile, err := m.auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	state := &State{
		UserID:     profile.ID,
		Username:   profile.Username,
		Email:      profile.Email,
		LoggedInAt: m.now().UTC(),
	}
	if err := m.save(state); err != nil {
		return nil, err
	}
	m.current = state
	return state, nil
}

// Logout clears the session; logging out twice is not an error
func (m *Manager) Logout() error {
	m.current = nil
	if err := os.Remove(m.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

// Current returns the active session, if any
func (m *Manager) Current() (*State, bool) {
	return m.current, m.current != nil
}

// Require is the route guard for commands that need a user
func (m *Manager) Require() (*State, error) {
	if m.current == nil {
		return nil, ErrNotLoggedIn
	}
	return m.current, nil
}

func (m *Manager) save(state *State) error {
	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

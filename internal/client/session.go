package client

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

var ErrNoSession = errors.New("no active session")

// Session is the logged-in state cached between CLI invocations.
type Session struct {
	Token      string    `json:"token"`
	UserID     uint      `json:"user_id"`
	EmployeeID string    `json:"employee_id"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	SavedAt    time.Time `json:"saved_at"`
}

// SessionStore persists the session as a JSON file, mode 0600 since it holds
// the bearer token.
type SessionStore struct {
	Path string
}

func DefaultSessionStore() *SessionStore {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &SessionStore{Path: filepath.Join(home, ".crane", "session.json")}
}

func (s *SessionStore) Load() (*Session, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	if session.Token == "" {
		return nil, ErrNoSession
	}
	return &session, nil
}

func (s *SessionStore) Save(session *Session) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0700); err != nil {
		return err
	}
	session.SavedAt = time.Now()
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path, data, 0600)
}

func (s *SessionStore) Clear() error {
	err := os.Remove(s.Path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

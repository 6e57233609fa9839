package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/St1cky1/taskboard/internal/entity"
	"golang.org/x/oauth2"
)

// SessionData is what a signed-in client remembers about its user.
type SessionData struct {
	Token  string      `json:"token"`
	UserID string      `json:"id"`
	Name   string      `json:"name"`
	Email  string      `json:"email"`
	Role   entity.Role `json:"role"`
}

// Session holds the signed-in user. It doubles as the oauth2.TokenSource
// that feeds the bearer token into every authenticated request. A session
// with an empty path lives in memory only.
type Session struct {
	mu   sync.RWMutex
	path string
	data SessionData
}

var _ oauth2.TokenSource = (*Session)(nil)

func NewMemorySession() *Session {
	return &Session{}
}

// LoadSession reads the session file at path; a missing file gives a
// signed-out session that will be written to path on sign-in.
func LoadSession(path string) (*Session, error) {
	s := &Session{path: path}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("parse session %s: %w", path, err)
	}
	return s, nil
}

func (s *Session) Current() SessionData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

func (s *Session) SignedIn() bool {
	return s.Current().Token != ""
}

func (s *Session) IsAdmin() bool {
	return s.Current().Role == entity.RoleAdmin
}

// Token implements oauth2.TokenSource.
func (s *Session) Token() (*oauth2.Token, error) {
	cur := s.Current()
	if cur.Token == "" {
		return nil, ErrUnauthenticated
	}
	return &oauth2.Token{AccessToken: cur.Token, TokenType: "Bearer"}, nil
}

func (s *Session) Save(resp *entity.AuthResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = SessionData{
		Token:  resp.Token,
		UserID: resp.ID,
		Name:   resp.Name,
		Email:  resp.Email,
		Role:   resp.Role,
	}
	return s.persist()
}

func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = SessionData{}
	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// persist must be called with mu held.
func (s *Session) persist() error {
	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

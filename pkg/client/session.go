package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"recipeshare/internal/models"
)

// Session holds the bearer token and the signed-in user between calls.
type Session interface {
	Token() string
	User() *models.PublicUser
	Save(token string, user models.PublicUser) error
	Clear() error
}

type sessionData struct {
	Token string             `json:"token"`
	User  *models.PublicUser `json:"user,omitempty"`
}

// MemorySession keeps the session for the lifetime of the process.
type MemorySession struct {
	mu   sync.RWMutex
	data sessionData
}

// NewMemorySession returns an empty in-memory session.
func NewMemorySession() *MemorySession {
	return &MemorySession{}
}

func (s *MemorySession) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Token
}

func (s *MemorySession) User() *models.PublicUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data.User == nil {
		return nil
	}
	u := *s.data.User
	return &u
}

func (s *MemorySession) Save(token string, user models.PublicUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = sessionData{Token: token, User: &user}
	return nil
}

func (s *MemorySession) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = sessionData{}
	return nil
}

// FileSession persists the session as JSON in a file readable only by its owner.
type FileSession struct {
	path string
	mem  MemorySession
}

// NewFileSession loads the session stored at path. A missing file is an empty session.
func NewFileSession(path string) (*FileSession, error) {
	s := &FileSession{path: path}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, &s.mem.data); err != nil {
		return nil, fmt.Errorf("failed to parse session file %s: %w", path, err)
	}
	return s, nil
}

func (s *FileSession) Token() string { return s.mem.Token() }

func (s *FileSession) User() *models.PublicUser { return s.mem.User() }

func (s *FileSession) Save(token string, user models.PublicUser) error {
	raw, err := json.Marshal(sessionData{Token: token, User: &user})
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write session file %s: %w", s.path, err)
	}
	return s.mem.Save(token, user)
}

func (s *FileSession) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file %s: %w", s.path, err)
	}
	return s.mem.Clear()
}

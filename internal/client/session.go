package client

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// Session remembers the selected student between shell runs.
type Session struct {
	StudentID   string `json:"studentId"`
	StudentName string `json:"studentName"`

	path string
	mu   sync.Mutex
}

// LoadSession reads the session file at path. A missing file yields an empty
// session that will be written to path on Save. An empty path disables saving.
func LoadSession(path string) (*Session, error) {
	s := &Session{path: path}
	if path == "" {
		return s, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(b, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Use selects a student and persists the choice.
func (s *Session) Use(id, name string) error {
	s.mu.Lock()
	s.StudentID, s.StudentName = id, name
	s.mu.Unlock()
	return s.Save()
}

// Current returns the selected student, if any.
func (s *Session) Current() (id, name string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.StudentID, s.StudentName, s.StudentID != ""
}

// Save writes the session file.
func (s *Session) Save() error {
	if s.path == "" {
		return nil
	}
	s.mu.Lock()
	b, err := json.MarshalIndent(s, "", "  ")
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, b, 0o600)
}

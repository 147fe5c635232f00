package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/hoyo-tech/hoyo-client/internal/model/account"
)

// sessionFile is the on-disk layout: the same token/user key pair the browser
// client keeps in local storage.
type sessionFile struct {
	Token string        `json:"token"`
	User  *account.User `json:"user"`
}

// FileStore implements Store backed by a JSON file. The file survives process
// restarts but is local to the machine, matching the durability of browser
// local storage.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// DefaultSessionPath returns the session file location under the OS config
// directory, e.g. ~/.config/hoyo/session.json on Linux.
func DefaultSessionPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "hoyo", "session.json"), nil
}

// NewFileStore returns a FileStore persisting to the given path. The file is
// created lazily on the first Set.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Token returns the stored bearer token.
func (s *FileStore) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.load()
	if !ok || f.Token == "" {
		return "", false
	}
	return f.Token, true
}

// User returns the stored user record.
func (s *FileStore) User() (account.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.load()
	if !ok || f.User == nil {
		return account.User{}, false
	}
	return *f.User, true
}

// Set writes token and user to disk together.
func (s *FileStore) Set(token string, user account.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("unable to create session directory: %w", err)
	}

	data, err := json.Marshal(sessionFile{Token: token, User: &user})
	if err != nil {
		return fmt.Errorf("unable to encode session: %w", err)
	}

	// Write-then-rename so a crash mid-write never leaves a torn session.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("unable to write session file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("unable to replace session file: %w", err)
	}
	return nil
}

// Clear removes the session file. Missing file is not an error.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("unable to remove session file: %w", err)
	}
	return nil
}

// load reads the file; an unreadable or corrupt file reads as an empty
// session rather than an error, so a damaged file behaves like a logout.
func (s *FileStore) load() (sessionFile, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return sessionFile{}, false
	}
	var f sessionFile
	if err := json.Unmarshal(data, &f); err != nil {
		return sessionFile{}, false
	}
	return f, true
}

package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store persists the credential pair. An empty string means the value is
// absent. Implementations must be safe for concurrent use.
type Store interface {
	Access() string
	Refresh() string
	SetPair(access, refresh string) error
	SetAccess(access string) error
	Clear() error
}

// tokenFile is the on-disk representation of the credential pair. The two
// fixed keys mirror the storage contract the backend's web clients use.
type tokenFile struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// FileStore persists tokens as a small JSON document on disk
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a file-backed token store at path. The file is created
// lazily on the first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Access() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read().Access
}

func (s *FileStore) Refresh() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read().Refresh
}

func (s *FileStore) SetPair(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(tokenFile{Access: access, Refresh: refresh})
}

func (s *FileStore) SetAccess(access string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tokens := s.read()
	tokens.Access = access
	return s.write(tokens)
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear tokens: %w", err)
	}
	return nil
}

// read loads the stored pair; a missing or unreadable file yields an empty
// pair, matching the "never set" signal.
func (s *FileStore) read() tokenFile {
	var tokens tokenFile
	data, err := os.ReadFile(s.path)
	if err != nil {
		return tokens
	}
	if err := json.Unmarshal(data, &tokens); err != nil {
		return tokenFile{}
	}
	return tokens
}

func (s *FileStore) write(tokens tokenFile) error {
	if dir := filepath.Dir(s.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create token directory: %w", err)
		}
	}
	data, err := json.Marshal(tokens)
	if err != nil {
		return fmt.Errorf("failed to encode tokens: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write tokens: %w", err)
	}
	return nil
}

// MemoryStore keeps the credential pair in memory. Used in tests and anywhere
// persistence across processes is not wanted.
type MemoryStore struct {
	mu      sync.Mutex
	access  string
	refresh string
}

// NewMemoryStore creates an empty in-memory token store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Access() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.access
}

func (s *MemoryStore) Refresh() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refresh
}

func (s *MemoryStore) SetPair(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	s.refresh = refresh
	return nil
}

func (s *MemoryStore) SetAccess(access string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = ""
	s.refresh = ""
	return nil
}

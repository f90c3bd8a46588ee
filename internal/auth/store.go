package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// TokenStore persists the single bearer token of one client.
// Get returns "" when nothing is stored.
type TokenStore interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// StoreFactory returns the token store addressed by a client's key.
type StoreFactory func(sessionKey string) TokenStore

// MemoryStore keeps the token in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get(context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

func (s *MemoryStore) Set(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

// MemoryStores keeps one token per browser key in process memory.
// A key only occupies a slot while a token is stored under it, so anonymous
// visitors cost nothing.
type MemoryStores struct {
	mu     sync.RWMutex
	tokens map[string]string
}

func NewMemoryStores() *MemoryStores {
	return &MemoryStores{tokens: map[string]string{}}
}

// For returns the store addressed by key.
func (m *MemoryStores) For(key string) TokenStore {
	return &memorySlot{stores: m, key: key}
}

// Len reports how many keys currently hold a token.
func (m *MemoryStores) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tokens)
}

// NewMemoryStoreFactory is NewMemoryStores().For. Sessions do not survive a restart.
func NewMemoryStoreFactory() StoreFactory {
	return NewMemoryStores().For
}

type memorySlot struct {
	stores *MemoryStores
	key    string
}

func (s *memorySlot) Get(context.Context) (string, error) {
	s.stores.mu.RLock()
	defer s.stores.mu.RUnlock()
	return s.stores.tokens[s.key], nil
}

func (s *memorySlot) Set(ctx context.Context, token string) error {
	if token == "" {
		return s.Clear(ctx)
	}
	s.stores.mu.Lock()
	defer s.stores.mu.Unlock()
	s.stores.tokens[s.key] = token
	return nil
}

func (s *memorySlot) Clear(context.Context) error {
	s.stores.mu.Lock()
	defer s.stores.mu.Unlock()
	delete(s.stores.tokens, s.key)
	return nil
}

type credentials struct {
	Token string `json:"token"`
}

// FileStore keeps the token in a JSON credentials file readable only by its owner.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the credentials file location.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Get(context.Context) (string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read credentials: %w", err)
	}
	var creds credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return "", fmt.Errorf("parse credentials %s: %w", s.path, err)
	}
	return creds.Token, nil
}

func (s *FileStore) Set(_ context.Context, token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create credentials directory: %w", err)
	}
	data, err := json.MarshalIndent(credentials{Token: token}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

func (s *FileStore) Clear(context.Context) error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}

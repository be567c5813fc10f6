package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// TokenKey is the storage key the session token lives under
const TokenKey = "X-Token"

var ErrTokenNotFound = errors.New("token not found")

// TokenStore keeps the opaque session token between runs
type TokenStore interface {
	// Save stores the token, replacing any previous one
	Save(token string) error

	// Load returns the stored token or ErrTokenNotFound
	Load() (string, error)

	// Remove discards the stored token; removing nothing is not an error
	Remove() error

	// Exists reports whether a token is stored
	Exists() bool
}

// FileTokenStore implements TokenStore as a JSON key/value file
type FileTokenStore struct {
	path string
	mu   sync.Mutex
}

// NewFileTokenStore creates a file-backed store, creating its directory
func NewFileTokenStore(path string) (*FileTokenStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create token directory: %w", err)
	}
	return &FileTokenStore{path: path}, nil
}

// Path returns the backing file
func (fs *FileTokenStore) Path() string {
	return fs.path
}

// Save persists the token under TokenKey
func (fs *FileTokenStore) Save(token string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := fs.read()
	if err != nil {
		return err
	}
	data[TokenKey] = token

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token file: %w", err)
	}

	// Token grants game access; keep it private to the user
	if err := os.WriteFile(fs.path, jsonData, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// Load reads the token stored under TokenKey
func (fs *FileTokenStore) Load() (string, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := fs.read()
	if err != nil {
		return "", err
	}
	token, ok := data[TokenKey]
	if !ok {
		return "", ErrTokenNotFound
	}
	return token, nil
}

// Remove deletes TokenKey, and the file once nothing else is stored
func (fs *FileTokenStore) Remove() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := fs.read()
	if err != nil {
		return err
	}
	delete(data, TokenKey)

	if len(data) == 0 {
		if err := os.Remove(fs.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove token file: %w", err)
		}
		return nil
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token file: %w", err)
	}
	if err := os.WriteFile(fs.path, jsonData, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// Exists checks if a token is stored
func (fs *FileTokenStore) Exists() bool {
	_, err := fs.Load()
	return err == nil
}

// read loads the key/value document; a missing file is an empty document.
// Callers must hold fs.mu.
func (fs *FileTokenStore) read() (map[string]string, error) {
	data := make(map[string]string)

	jsonData, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return data, nil
		}
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token file: %w", err)
	}
	return data, nil
}

// MemoryTokenStore implements TokenStore in memory
type MemoryTokenStore struct {
	token string
	set   bool
	mu    sync.Mutex
}

// NewMemoryTokenStore creates an empty in-memory store
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

// Save stores the token
func (ms *MemoryTokenStore) Save(token string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.token = token
	ms.set = true
	return nil
}

// Load returns the token or ErrTokenNotFound
func (ms *MemoryTokenStore) Load() (string, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if !ms.set {
		return "", ErrTokenNotFound
	}
	return ms.token, nil
}

// Remove discards the token
func (ms *MemoryTokenStore) Remove() error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.token = ""
	ms.set = false
	return nil
}

// Exists reports whether a token is stored
func (ms *MemoryTokenStore) Exists() bool {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.set
}

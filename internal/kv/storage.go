package kv

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrClosed is returned by every operation on a closed Storage.
var ErrClosed = errors.New("storage is closed")

// Storage is a durable string key-value store. Implementations are safe
// for concurrent use.
type Storage interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(key string) (value string, ok bool, err error)
	// Set stores value under key, replacing any previous value.
	Set(key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(key string) error
	// Close releases resources held by the storage.
	Close() error
}

// Backend names a Storage implementation.
type Backend string

const (
	// BackendSQLite keeps entries in a SQLite table (default).
	BackendSQLite Backend = "sqlite"
	// BackendFile keeps entries in a JSON file guarded by a file lock.
	BackendFile Backend = "file"
	// BackendMemory keeps entries in memory only.
	BackendMemory Backend = "memory"
)

// NewStorageWithBackend opens a Storage of the given backend. basePath has
// no extension; ".db" or ".json" is appended depending on the backend.
// An empty basePath with the sqlite backend opens an in-memory database.
func NewStorageWithBackend(basePath string, backend string) (Storage, error) {
	switch Backend(backend) {
	case BackendSQLite, "":
		var path string
		if basePath != "" {
			path = basePath + ".db"
		}
		return NewSQLiteStore(path)

	case BackendFile:
		if basePath == "" {
			return nil, fmt.Errorf("file backend requires a path")
		}
		return NewFileStore(basePath + ".json")

	case BackendMemory:
		return NewMemoryStore(), nil

	default:
		return nil, fmt.Errorf("unknown storage backend: %s (valid options: sqlite, file, memory)", backend)
	}
}

// StoragePath returns the on-disk path a backend uses for basePath, or ""
// for backends without a file.
func StoragePath(basePath string, backend string) string {
	switch Backend(backend) {
	case BackendFile:
		return basePath + ".json"
	case BackendMemory:
		return ""
	default:
		return basePath + ".db"
	}
}

// SaveJSON marshals value and stores it under key.
func SaveJSON(s Storage, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return s.Set(key, string(data))
}

// LoadJSON reads key and unmarshals it into out. found is false when the
// key is absent; a present but malformed value is an error.
func LoadJSON(s Storage, key string, out any) (found bool, err error) {
	raw, ok, err := s.Get(key)
	if err != nil {
		return false, err
	}
	if !ok || raw == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return true, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return true, nil
}

// IsAvailable reports whether s accepts a write followed by a remove of
// probeKey. It never returns an error.
func IsAvailable(s Storage, probeKey string) bool {
	if s == nil {
		return false
	}
	if err := s.Set(probeKey, "probe"); err != nil {
		return false
	}
	return s.Remove(probeKey) == nil
}

// fileExists checks if a regular file exists at path.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

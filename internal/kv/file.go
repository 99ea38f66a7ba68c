package kv

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
)

// FileStore is a Storage kept as one JSON object on disk.
//
// Every operation re-reads the file under a cross-process lock so that
// separate storefront processes see each other's writes. Writes go to a
// temp file that is renamed over the original.
type FileStore struct {
	mu     sync.Mutex
	path   string
	lock   *flock.Flock
	closed bool
}

var _ Storage = (*FileStore)(nil)

// NewFileStore opens the store at path, creating its directory if needed.
// The file itself is created on first write.
func NewFileStore(path string) (*FileStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return &FileStore{
		path: path,
		lock: flock.New(path + ".lock"),
	}, nil
}

// Path returns the JSON file path.
func (f *FileStore) Path() string {
	return f.path
}

// Get implements Storage.
func (f *FileStore) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return "", false, ErrClosed
	}

	if err := f.lock.RLock(); err != nil {
		return "", false, fmt.Errorf("failed to acquire lock: %w", err)
	}
	defer func() { _ = f.lock.Unlock() }()

	entries, err := f.read()
	if err != nil {
		return "", false, err
	}
	v, ok := entries[key]
	return v, ok, nil
}

// Set implements Storage.
func (f *FileStore) Set(key, value string) error {
	return f.update(func(entries map[string]string) {
		entries[key] = value
	})
}

// Remove implements Storage.
func (f *FileStore) Remove(key string) error {
	return f.update(func(entries map[string]string) {
		delete(entries, key)
	})
}

// Close implements Storage. Idempotent.
func (f *FileStore) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true
	return f.lock.Close()
}

func (f *FileStore) update(mutate func(map[string]string)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrClosed
	}

	if err := f.lock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	defer func() { _ = f.lock.Unlock() }()

	entries, err := f.read()
	if err != nil {
		// Unreadable file is replaced rather than blocking every write.
		slog.Warn("kv_file_corrupted",
			slog.String("path", f.path),
			slog.String("error", err.Error()))
		entries = make(map[string]string)
	}

	mutate(entries)
	return f.write(entries)
}

// read loads the file. A missing or empty file is an empty map.
func (f *FileStore) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.path, err)
	}
	entries := make(map[string]string)
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", f.path, err)
	}
	return entries, nil
}

// write persists entries atomically (temp file + rename).
func (f *FileStore) write(entries map[string]string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal entries: %w", err)
	}

	tmpPath := f.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to save %s: %w", f.path, err)
	}
	return nil
}

package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// Storage is a string key/value store with local-storage semantics.
// Get reports ok=false for a missing key.
type Storage interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
}

// MemoryStorage keeps values in process memory.
type MemoryStorage struct {
	mu    sync.Mutex
	items map[string]string
}

// NewMemoryStorage returns an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{items: make(map[string]string)}
}

func (m *MemoryStorage) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *MemoryStorage) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *MemoryStorage) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

// errCorrupt marks a storage file that exists but is not a JSON object.
var errCorrupt = errors.New("storage file is corrupt")

// FileStorage persists values as a flat JSON object in a single file.
// Every call re-reads the file so separate processes see each other's writes.
// A corrupt file fails reads; the next write moves it to path+".bak" and
// starts over with an empty object.
type FileStorage struct {
	mu   sync.Mutex
	path string
	log  zerolog.Logger
}

// NewFileStorage returns a storage backed by the file at path. The file and
// its directory are created on first write.
func NewFileStorage(path string, log zerolog.Logger) *FileStorage {
	return &FileStorage{path: path, log: log}
}

// Path returns the backing file path.
func (f *FileStorage) Path() string {
	return f.path
}

func (f *FileStorage) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items, err := f.load()
	if err != nil {
		return "", false, err
	}
	v, ok := items[key]
	return v, ok, nil
}

func (f *FileStorage) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	items, err := f.loadForWrite()
	if err != nil {
		return err
	}
	items[key] = value
	return f.save(items)
}

func (f *FileStorage) Remove(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	items, err := f.loadForWrite()
	if err != nil {
		return err
	}
	if _, ok := items[key]; !ok {
		return nil
	}
	delete(items, key)
	return f.save(items)
}

func (f *FileStorage) load() (map[string]string, error) {
	items := make(map[string]string)
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return items, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read storage: %w", err)
	}
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse storage %s: %w: %w", f.path, errCorrupt, err)
	}
	return items, nil
}

// loadForWrite is load, except that a corrupt file is set aside so the
// write can proceed on an empty object.
func (f *FileStorage) loadForWrite() (map[string]string, error) {
	items, err := f.load()
	if !errors.Is(err, errCorrupt) {
		return items, err
	}
	backup := f.path + ".bak"
	if rerr := os.Rename(f.path, backup); rerr != nil {
		return nil, fmt.Errorf("set aside corrupt storage: %w", rerr)
	}
	f.log.Warn().Err(err).Str("backup", backup).Msg("corrupt storage file replaced")
	return make(map[string]string), nil
}

// save writes to a temp file and renames it over the original.
func (f *FileStorage) save(items map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal storage: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write storage: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("replace storage: %w", err)
	}
	return nil
}

package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	// Dir is the directory name for storing snapshots
	Dir = "__snapshots__"
	// Ext is the file extension for snapshot files
	Ext = ".snap.json"
)

// FileStore keeps every snapshot of one check file in a single JSON
// document next to it.
type FileStore struct {
	path string

	mu     sync.Mutex
	loaded map[string]any
}

// NewFileStore returns a store backed by the JSON file at path. The file is
// created on the first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// ForFile returns the store for the snapshots of checkFile, kept in
// __snapshots__/<name>.snap.json beside it.
func ForFile(checkFile string) *FileStore {
	return NewFileStore(PathFor(checkFile))
}

// PathFor returns the snapshot file path for checkFile.
func PathFor(checkFile string) string {
	dir := filepath.Dir(checkFile)
	base := filepath.Base(checkFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	name = strings.TrimSuffix(name, ".check")

	return filepath.Join(dir, Dir, name+Ext)
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load(id string) (any, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshots, err := s.load()
	if err != nil {
		return nil, false, err
	}
	v, ok := snapshots[id]
	return v, ok, nil
}

func (s *FileStore) Save(id string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshots, err := s.load()
	if err != nil {
		return err
	}
	snapshots[id] = v

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(snapshots, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}

// load reads the file once and serves later calls from memory. Callers hold
// s.mu.
func (s *FileStore) load() (map[string]any, error) {
	if s.loaded != nil {
		return s.loaded, nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.loaded = make(map[string]any)
			return s.loaded, nil
		}
		return nil, err
	}

	var snapshots map[string]any
	if err := json.Unmarshal(data, &snapshots); err != nil {
		return nil, fmt.Errorf("invalid snapshot file %s: %w", s.path, err)
	}
	if snapshots == nil {
		snapshots = make(map[string]any)
	}
	s.loaded = snapshots
	return s.loaded, nil
}

package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Local persists exported documents and downloaded files on disk under
// a base directory. Filenames are confined to the base dir; separators
// and parent references in untrusted names cannot escape it.
type Local struct {
	baseDir string
}

// NewLocal ensures the base directory exists and returns a handle.
func NewLocal(baseDir string) (*Local, error) {
	if baseDir == "" {
		baseDir = "./downloads"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create download directory: %w", err)
	}
	return &Local{baseDir: baseDir}, nil
}

// Save writes the given bytes under the base dir and returns the
// absolute path of the written file.
func (s *Local) Save(filename string, data []byte) (string, error) {
	path := s.resolve(filename)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("prepare download directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return path, nil
}

// CleanupOlderThan removes files whose modification time predates the
// TTL and returns the deleted relative names.
func (s *Local) CleanupOlderThan(ttl time.Duration) ([]string, error) {
	cutoff := time.Now().Add(-ttl)
	deleted := make([]string, 0)
	err := filepath.WalkDir(s.baseDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.ModTime().After(cutoff) {
			return nil
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		rel, err := filepath.Rel(s.baseDir, path)
		if err != nil {
			rel = path
		}
		deleted = append(deleted, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cleanup downloads: %w", err)
	}
	return deleted, nil
}

// Path resolves a filename to its absolute location under the base dir.
func (s *Local) Path(filename string) string {
	return s.resolve(filename)
}

// resolve anchors the name inside the base directory. Rooting the name
// before cleaning strips any ".." prefix an untrusted filename (such as a
// server-sent Content-Disposition) could carry, and absolute names lose
// their leading separator the same way.
func (s *Local) resolve(filename string) string {
	path := filepath.Join(s.baseDir, filepath.Clean(string(filepath.Separator)+filename))
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

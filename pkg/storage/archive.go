package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ExportArchive keeps copies of rendered manifests and reports on disk under
// a base directory, partitioned by the day they were written.
type ExportArchive struct {
	baseDir string
}

// NewExportArchive ensures the base directory exists and returns a handle.
func NewExportArchive(baseDir string) (*ExportArchive, error) {
	if baseDir == "" {
		baseDir = "./archive"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive directory: %w", err)
	}
	return &ExportArchive{baseDir: baseDir}, nil
}

// Save writes the document under today's partition and returns the relative
// path it was stored at.
func (a *ExportArchive) Save(filename string, data []byte) (string, error) {
	rel := filepath.Join(time.Now().UTC().Format("2006-01-02"), filename)
	path := filepath.Join(a.baseDir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("prepare archive partition: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write archived export: %w", err)
	}
	return rel, nil
}

// Open returns a read-only handle for an archived document.
func (a *ExportArchive) Open(rel string) (*os.File, error) {
	file, err := os.Open(filepath.Join(a.baseDir, rel))
	if err != nil {
		return nil, fmt.Errorf("open archived export: %w", err)
	}
	return file, nil
}

// CleanupOlderThan removes archived documents past the retention window and
// returns the relative paths it deleted.
func (a *ExportArchive) CleanupOlderThan(retention time.Duration) ([]string, error) {
	cutoff := time.Now().Add(-retention)
	deleted := make([]string, 0)
	err := filepath.WalkDir(a.baseDir, func(path string, d os.DirEntry, err error) error {
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
		rel, err := filepath.Rel(a.baseDir, path)
		if err != nil {
			rel = path
		}
		deleted = append(deleted, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cleanup archive: %w", err)
	}
	return deleted, nil
}

package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/eunoia-app/eunoia/internal/apperr"
	"github.com/eunoia-app/eunoia/internal/checksum"
)

const collectionExt = ".json"

var nameRe = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// FS implements Provider backed by the local file system.
type FS struct {
	root string // absolute path to the data directory
}

// NewFS creates a new FS provider rooted at the given directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &FS{root: abs}, nil
}

// filePath maps a collection name to its file, rejecting anything that is
// not a plain lowercase identifier (directory traversal is impossible).
func (f *FS) filePath(name string) (string, error) {
	if !nameRe.MatchString(name) {
		return "", fmt.Errorf("storage: invalid collection name: %q", name)
	}
	return filepath.Join(f.root, name+collectionExt), nil
}

// List returns metadata for every collection file in the data root.
func (f *FS) List() ([]CollectionMetadata, error) {
	entries, err := os.ReadDir(f.root)
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	var out []CollectionMetadata
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), collectionExt) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("storage: stat %s: %w", e.Name(), err)
		}
		data, err := os.ReadFile(filepath.Join(f.root, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("storage: read %s: %w", e.Name(), err)
		}
		out = append(out, CollectionMetadata{
			Name:      strings.TrimSuffix(e.Name(), collectionExt),
			Checksum:  checksum.Sum(data),
			UpdatedAt: info.ModTime(),
		})
	}
	return out, nil
}

// Read returns the raw bytes of a collection file.
func (f *FS) Read(name string) ([]byte, error) {
	path, err := f.filePath(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", name, err)
	}
	return data, nil
}

// Write atomically replaces a collection: tmp file → fsync → rename.
func (f *FS) Write(name string, data []byte) error {
	path, err := f.filePath(name)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.root, ".eunoia-tmp-*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}

// Delete removes a collection file.
func (f *FS) Delete(name string) error {
	path, err := f.filePath(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("storage: delete %s: %w", name, err)
	}
	return nil
}

// ReadOnly wraps a Provider and rejects every mutation. It backs the seed
// data mode, where the application serves static sample records.
type ReadOnly struct {
	Provider
}

// NewReadOnly wraps p in a mutation-rejecting provider.
func NewReadOnly(p Provider) *ReadOnly {
	return &ReadOnly{Provider: p}
}

// Write always fails with apperr.ErrReadOnly.
func (r *ReadOnly) Write(string, []byte) error { return apperr.ErrReadOnly }

// Delete always fails with apperr.ErrReadOnly.
func (r *ReadOnly) Delete(string) error { return apperr.ErrReadOnly }

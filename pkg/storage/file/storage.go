// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-cryptoservices.
//
// go-cryptoservices is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

// Package file provides a file-based implementation of storage.SecureStorage.
// Each blob is written as a single file beneath a root directory. Identifiers
// are percent-encoded before being used as file names so path separators and
// control characters can never escape the root directory.
package file

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/jeremyhahn/go-cryptoservices/pkg/storage"
)

const (
	// Directory permissions (owner rwx only)
	dirPerms = 0700

	// Blob file permissions (owner rw only)
	filePerms = 0600
)

// FileStorage is a file-based implementation of storage.SecureStorage.
// It stores each blob as a file in a flat directory and is thread-safe.
type FileStorage struct {
	mu      sync.RWMutex
	rootDir string
	closed  bool
}

// New creates a new FileStorage rooted at the specified directory.
// The root directory is created with 0700 permissions if it doesn't exist.
func New(rootDir string) (*FileStorage, error) {
	if rootDir == "" {
		return nil, fmt.Errorf("file storage: root directory cannot be empty")
	}

	if err := os.MkdirAll(rootDir, dirPerms); err != nil {
		return nil, fmt.Errorf("file storage: failed to create root directory: %w", err)
	}

	return &FileStorage{rootDir: rootDir}, nil
}

// Store writes the blob to a temporary file and renames it into place,
// so a concurrent reader never observes a partially-written blob.
func (f *FileStorage) Store(data []byte, id string) error {
	if id == "" {
		return storage.ErrInvalidIdentifier
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return storage.ErrClosed
	}

	path := f.idToPath(id)
	tmp, err := os.CreateTemp(f.rootDir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("file storage: failed to create temp file for %q: %w", id, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("file storage: failed to write %q: %w", id, err)
	}
	if err := tmp.Chmod(filePerms); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("file storage: failed to set permissions for %q: %w", id, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("file storage: failed to close temp file for %q: %w", id, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("file storage: failed to commit %q: %w", id, err)
	}
	return nil
}

// Retrieve returns the blob stored under the given identifier.
// Returns storage.ErrDataNotFound if the blob does not exist.
func (f *FileStorage) Retrieve(id string) ([]byte, error) {
	if id == "" {
		return nil, storage.ErrInvalidIdentifier
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.closed {
		return nil, storage.ErrClosed
	}

	data, err := os.ReadFile(f.idToPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.ErrDataNotFound
		}
		return nil, fmt.Errorf("file storage: failed to read %q: %w", id, err)
	}
	return data, nil
}

// Delete removes the blob stored under the given identifier.
// Returns storage.ErrDataNotFound if the blob does not exist.
func (f *FileStorage) Delete(id string) error {
	if id == "" {
		return storage.ErrInvalidIdentifier
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return storage.ErrClosed
	}

	path := f.idToPath(id)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return storage.ErrDataNotFound
		}
		return fmt.Errorf("file storage: failed to stat %q: %w", id, err)
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("file storage: failed to delete %q: %w", id, err)
	}
	return nil
}

// List returns the identifiers of all stored blobs in sorted order.
func (f *FileStorage) List() ([]string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.closed {
		return nil, storage.ErrClosed
	}

	entries, err := os.ReadDir(f.rootDir)
	if err != nil {
		return nil, fmt.Errorf("file storage: failed to list root directory: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		id, err := url.PathUnescape(entry.Name())
		if err != nil {
			// Not one of ours (temp file or foreign content); skip it.
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Close marks the storage closed. Blobs remain on disk.
func (f *FileStorage) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// idToPath converts an identifier to an absolute file path inside the
// root directory. Percent-encoding neutralises path separators, "..",
// and control characters.
func (f *FileStorage) idToPath(id string) string {
	name := url.PathEscape(id)
	// PathEscape leaves "." and ".." untouched; never let them name a path
	// component.
	switch name {
	case ".":
		name = "%2E"
	case "..":
		name = "%2E%2E"
	}
	return filepath.Join(f.rootDir, name)
}

// Verify interface compliance at compile time
var _ storage.SecureStorage = (*FileStorage)(nil)

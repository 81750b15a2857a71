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

package storage

import "sync"

// MemoryStorage provides an in-memory SecureStorage implementation.
// This is useful for testing and ephemeral storage needs.
// Thread-safe using a read-write mutex.
type MemoryStorage struct {
	data   map[string][]byte
	mu     sync.RWMutex
	closed bool
}

// NewMemoryStorage creates a new in-memory secure storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		data: make(map[string][]byte),
	}
}

// New creates a new in-memory secure storage.
// This is a convenience function for testing and development.
// For persistent storage, use file.New() with a directory path.
func New() SecureStorage {
	return NewMemoryStorage()
}

// Store persists data under the given identifier, overwriting any
// existing blob. A copy of the data is stored so later mutation of the
// caller's slice cannot alter stored state.
func (m *MemoryStorage) Store(data []byte, id string) error {
	if id == "" {
		return ErrInvalidIdentifier
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	blob := make([]byte, len(data))
	copy(blob, data)
	m.data[id] = blob
	return nil
}

// Retrieve returns a copy of the blob stored under the given identifier.
func (m *MemoryStorage) Retrieve(id string) ([]byte, error) {
	if id == "" {
		return nil, ErrInvalidIdentifier
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrClosed
	}

	blob, exists := m.data[id]
	if !exists {
		return nil, ErrDataNotFound
	}

	result := make([]byte, len(blob))
	copy(result, blob)
	return result, nil
}

// Delete removes the blob stored under the given identifier.
// Returns ErrDataNotFound if no blob exists.
func (m *MemoryStorage) Delete(id string) error {
	if id == "" {
		return ErrInvalidIdentifier
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	if _, exists := m.data[id]; !exists {
		return ErrDataNotFound
	}

	delete(m.data, id)
	return nil
}

// List returns the identifiers of all stored blobs.
func (m *MemoryStorage) List() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrClosed
	}

	ids := make([]string, 0, len(m.data))
	for id := range m.data {
		ids = append(ids, id)
	}
	return ids, nil
}

// Close releases the storage. Stored blobs are discarded.
func (m *MemoryStorage) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}

	m.closed = true
	m.data = nil
	return nil
}

// Verify interface compliance at compile time
var _ SecureStorage = (*MemoryStorage)(nil)

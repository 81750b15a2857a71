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

// Package storage provides the secure storage abstraction that every
// cryptographic operation reads its inputs from and writes its outputs to.
// Data never crosses the operation boundary as raw bytes; it is always
// referenced by an opaque string identifier resolved through this interface.
package storage

// SecureStorage defines the contract for identifier-addressed byte storage.
// All implementations must be thread-safe: concurrent Store/Delete on the
// same identifier must be serialized, and Retrieve must never observe a
// torn write.
type SecureStorage interface {
	// Store persists data under the given identifier.
	// An existing blob under the same identifier is overwritten.
	Store(data []byte, id string) error

	// Retrieve returns the blob stored under the given identifier.
	// Returns ErrDataNotFound if no blob exists.
	Retrieve(id string) ([]byte, error)

	// Delete removes the blob stored under the given identifier.
	// Returns ErrDataNotFound if no blob exists.
	Delete(id string) error

	// List returns the identifiers of all stored blobs.
	List() ([]string, error)

	// Close releases any resources held by the storage.
	Close() error
}

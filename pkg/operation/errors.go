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

package operation

import "errors"

var (
	// ErrInvalidInput is returned when an identifier is empty or options
	// are internally inconsistent (wrong IV length, bad key size request).
	ErrInvalidInput = errors.New("operation: invalid input")

	// ErrInvalidKeyLength is returned when a key's byte length does not
	// match the algorithm's required length.
	ErrInvalidKeyLength = errors.New("operation: invalid key length")

	// ErrInvalidAlgorithm is returned when an algorithm is unknown or not
	// valid for the operation.
	ErrInvalidAlgorithm = errors.New("operation: invalid algorithm")

	// ErrInvalidDataFormat is returned when a referenced blob is not in
	// the expected format (malformed ciphertext envelope).
	ErrInvalidDataFormat = errors.New("operation: invalid data format")

	// ErrEncryptionFailed is returned when algorithm execution fails
	// during encryption.
	ErrEncryptionFailed = errors.New("operation: encryption failed")

	// ErrDecryptionFailed is returned when decryption fails, including
	// authentication tag mismatch on AEAD algorithms.
	ErrDecryptionFailed = errors.New("operation: decryption failed")

	// ErrHashingFailed is returned when algorithm execution fails during
	// hashing.
	ErrHashingFailed = errors.New("operation: hashing failed")

	// ErrKeyGenerationFailed is returned when key generation or
	// derivation fails.
	ErrKeyGenerationFailed = errors.New("operation: key generation failed")

	// ErrUnsupportedOperation is returned when an operation is outside a
	// provider's capability matrix.
	ErrUnsupportedOperation = errors.New("operation: unsupported operation")

	// ErrOperationFailed is returned for failures with no more specific
	// kind.
	ErrOperationFailed = errors.New("operation: operation failed")
)

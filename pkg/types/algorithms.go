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

package types

import "strings"

// =============================================================================
// Encryption Algorithm Constants
// =============================================================================
// These string constants provide consistent algorithm identifiers throughout
// the codebase and in the ciphertext envelope.

// EncryptionAlgorithm represents symmetric encryption algorithm identifiers.
type EncryptionAlgorithm string

const (
	// EncryptionAES256CBC is AES-256 in CBC mode with PKCS#7 padding.
	// Requires a 16-byte IV. Not authenticated.
	EncryptionAES256CBC EncryptionAlgorithm = "aes-256-cbc"

	// EncryptionAES256GCM is AES-256 in GCM mode (AEAD).
	// Requires a 12-byte nonce. No padding.
	EncryptionAES256GCM EncryptionAlgorithm = "aes-256-gcm"

	// EncryptionChaCha20Poly1305 is ChaCha20-Poly1305 (AEAD).
	// Requires a 12-byte nonce and a 32-byte key.
	EncryptionChaCha20Poly1305 EncryptionAlgorithm = "chacha20-poly1305"
)

// String returns the string representation.
func (a EncryptionAlgorithm) String() string {
	return string(a)
}

// Valid reports whether the algorithm is one of the known identifiers.
func (a EncryptionAlgorithm) Valid() bool {
	switch a {
	case EncryptionAES256CBC, EncryptionAES256GCM, EncryptionChaCha20Poly1305:
		return true
	}
	return false
}

// KeySize returns the required key length in bytes, or 0 for an unknown
// algorithm. All supported algorithms use 256-bit keys.
func (a EncryptionAlgorithm) KeySize() int {
	switch a {
	case EncryptionAES256CBC, EncryptionAES256GCM, EncryptionChaCha20Poly1305:
		return 32
	}
	return 0
}

// NonceSize returns the required IV/nonce length in bytes, or 0 for an
// unknown algorithm.
func (a EncryptionAlgorithm) NonceSize() int {
	switch a {
	case EncryptionAES256CBC:
		return 16
	case EncryptionAES256GCM, EncryptionChaCha20Poly1305:
		return 12
	}
	return 0
}

// Authenticated reports whether the algorithm provides authenticated
// encryption (AEAD).
func (a EncryptionAlgorithm) Authenticated() bool {
	switch a {
	case EncryptionAES256GCM, EncryptionChaCha20Poly1305:
		return true
	}
	return false
}

// ParseEncryptionAlgorithm parses a case-insensitive algorithm name.
// Returns an empty (invalid) algorithm for unknown names.
func ParseEncryptionAlgorithm(s string) EncryptionAlgorithm {
	a := EncryptionAlgorithm(strings.ToLower(strings.TrimSpace(s)))
	if a.Valid() {
		return a
	}
	return ""
}

// =============================================================================
// Hash Algorithm Constants
// =============================================================================

// HashAlgorithm represents cryptographic hash algorithm identifiers.
type HashAlgorithm string

const (
	// HashSHA256 is SHA-256 (32-byte digest).
	HashSHA256 HashAlgorithm = "sha-256"

	// HashSHA384 is SHA-384 (48-byte digest).
	HashSHA384 HashAlgorithm = "sha-384"

	// HashSHA512 is SHA-512 (64-byte digest).
	HashSHA512 HashAlgorithm = "sha-512"

	// HashBLAKE3 is BLAKE3 with its default 32-byte digest.
	// Only available on the cross-platform provider.
	HashBLAKE3 HashAlgorithm = "blake3"
)

// String returns the string representation.
func (h HashAlgorithm) String() string {
	return string(h)
}

// Valid reports whether the algorithm is one of the known identifiers.
func (h HashAlgorithm) Valid() bool {
	switch h {
	case HashSHA256, HashSHA384, HashSHA512, HashBLAKE3:
		return true
	}
	return false
}

// Size returns the digest length in bytes, or 0 for an unknown algorithm.
func (h HashAlgorithm) Size() int {
	switch h {
	case HashSHA256, HashBLAKE3:
		return 32
	case HashSHA384:
		return 48
	case HashSHA512:
		return 64
	}
	return 0
}

// ParseHashAlgorithm parses a case-insensitive hash algorithm name.
// Returns an empty (invalid) algorithm for unknown names.
func ParseHashAlgorithm(s string) HashAlgorithm {
	h := HashAlgorithm(strings.ToLower(strings.TrimSpace(s)))
	if h.Valid() {
		return h
	}
	return ""
}

// =============================================================================
// Key Derivation Function Constants
// =============================================================================

// KeyDerivationFunction represents password-based KDF identifiers.
type KeyDerivationFunction string

const (
	// KDFPBKDF2 is PBKDF2-HMAC-SHA512.
	KDFPBKDF2 KeyDerivationFunction = "pbkdf2"

	// KDFArgon2id is Argon2id, a memory-hard KDF.
	// Only available on the cross-platform provider.
	KDFArgon2id KeyDerivationFunction = "argon2id"
)

// String returns the string representation.
func (k KeyDerivationFunction) String() string {
	return string(k)
}

// Valid reports whether the KDF is one of the known identifiers.
func (k KeyDerivationFunction) Valid() bool {
	switch k {
	case KDFPBKDF2, KDFArgon2id:
		return true
	}
	return false
}

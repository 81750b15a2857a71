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

// EncryptionOptions configures a single encrypt operation.
// The zero value leaves the algorithm to the provider's documented default.
type EncryptionOptions struct {
	// Algorithm selects the encryption algorithm. When empty the provider
	// substitutes its documented default algorithm.
	Algorithm EncryptionAlgorithm

	// IV is an optional explicit IV/nonce. When nil a cryptographically
	// random IV/nonce of the algorithm's required length is generated.
	// When set, its length must match the algorithm's required length.
	IV []byte

	// AAD is optional additional authenticated data. Only valid for
	// authenticated (AEAD) algorithms.
	AAD []byte
}

// DecryptionOptions configures a single decrypt operation.
type DecryptionOptions struct {
	// Algorithm optionally pins the expected algorithm. The ciphertext
	// envelope records the algorithm used at encryption time; when
	// Algorithm is set and disagrees with the envelope the operation
	// fails rather than decrypting with the wrong primitive.
	Algorithm EncryptionAlgorithm

	// AAD is the additional authenticated data supplied at encryption
	// time. Required to match for AEAD algorithms.
	AAD []byte
}

// HashingOptions configures hash and verify-hash operations.
type HashingOptions struct {
	// Algorithm selects the hash algorithm. When empty SHA-256 is used.
	Algorithm HashAlgorithm
}

// KeyGenerationOptions configures a generate-key operation.
type KeyGenerationOptions struct {
	// Bits is the key length in bits. When zero, 256 is used.
	// Must be a positive multiple of 8.
	Bits int

	// Password, when non-empty, switches generation from random bytes to
	// password-based derivation with a freshly generated random salt.
	Password string

	// KDF selects the derivation function used when Password is set.
	// When empty the provider substitutes its documented default KDF.
	KDF KeyDerivationFunction

	// Iterations is the PBKDF2 iteration count. Zero selects the
	// documented default.
	Iterations int

	// MemoryKiB is the Argon2id memory cost in KiB. Zero selects the
	// documented default.
	MemoryKiB uint32

	// Parallelism is the Argon2id lane count. Zero selects the
	// documented default.
	Parallelism uint8
}

// KeyDerivationOptions configures a derive-key operation.
type KeyDerivationOptions struct {
	// Password is the secret input. Must be non-empty.
	Password string

	// Salt is the derivation salt. Must be non-empty.
	Salt []byte

	// KDF selects the derivation function. When empty the provider
	// substitutes its documented default KDF.
	KDF KeyDerivationFunction

	// Length is the derived key length in bytes. When zero, 32 is used.
	Length int

	// Iterations is the PBKDF2 iteration count. Zero selects the
	// documented default.
	Iterations int

	// MemoryKiB is the Argon2id memory cost in KiB. Zero selects the
	// documented default.
	MemoryKiB uint32

	// Parallelism is the Argon2id lane count. Zero selects the
	// documented default.
	Parallelism uint8
}

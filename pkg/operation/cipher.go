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

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"github.com/jeremyhahn/go-cryptoservices/pkg/crypto/pkcs7"
	"github.com/jeremyhahn/go-cryptoservices/pkg/types"
	"golang.org/x/crypto/chacha20poly1305"
)

// Seal encrypts plaintext into a ciphertext envelope with the given
// algorithm, key, and nonce. Callers that work with storage identifiers use
// the Encrypt command instead; Seal exists for collaborators such as key
// rotation that already hold raw bytes.
func Seal(alg types.EncryptionAlgorithm, key, nonce, plaintext, aad []byte) (*types.Envelope, error) {
	return seal(alg, key, nonce, plaintext, aad)
}

// Open decrypts a ciphertext envelope with the given key. The counterpart
// of Seal for collaborators holding raw bytes.
func Open(env *types.Envelope, key, aad []byte) ([]byte, error) {
	return open(env, key, aad)
}

// seal encrypts plaintext with the given algorithm, key, and nonce/IV,
// producing a ciphertext envelope. The nonce must already be the
// algorithm's required length.
func seal(alg types.EncryptionAlgorithm, key, nonce, plaintext, aad []byte) (*types.Envelope, error) {
	switch alg {
	case types.EncryptionAES256CBC:
		return sealCBC(key, nonce, plaintext, aad)
	case types.EncryptionAES256GCM:
		return sealGCM(key, nonce, plaintext, aad)
	case types.EncryptionChaCha20Poly1305:
		return sealChaCha20(key, nonce, plaintext, aad)
	}
	return nil, fmt.Errorf("%w: %s", ErrInvalidAlgorithm, alg)
}

// open decrypts a ciphertext envelope with the given key. AEAD algorithms
// fail closed on tag mismatch; no partially-decrypted data is returned.
func open(env *types.Envelope, key, aad []byte) ([]byte, error) {
	switch env.Algorithm {
	case types.EncryptionAES256CBC:
		return openCBC(env, key, aad)
	case types.EncryptionAES256GCM:
		return openGCM(env, key, aad)
	case types.EncryptionChaCha20Poly1305:
		return openChaCha20(env, key, aad)
	}
	return nil, fmt.Errorf("%w: %s", ErrInvalidAlgorithm, env.Algorithm)
}

func sealCBC(key, iv, plaintext, aad []byte) (*types.Envelope, error) {
	if len(aad) > 0 {
		return nil, fmt.Errorf("%w: AES-CBC does not support additional authenticated data", ErrInvalidInput)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
	}

	padded, err := pkcs7.Pad(plaintext, block.BlockSize())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
	}

	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return &types.Envelope{
		Algorithm:  types.EncryptionAES256CBC,
		Nonce:      iv,
		Ciphertext: ciphertext,
	}, nil
}

func openCBC(env *types.Envelope, key, aad []byte) ([]byte, error) {
	if len(aad) > 0 {
		return nil, fmt.Errorf("%w: AES-CBC does not support additional authenticated data", ErrInvalidInput)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}
	if len(env.Nonce) != block.BlockSize() {
		return nil, fmt.Errorf("%w: IV length %d", ErrInvalidDataFormat, len(env.Nonce))
	}
	if len(env.Ciphertext) == 0 || len(env.Ciphertext)%block.BlockSize() != 0 {
		return nil, fmt.Errorf("%w: ciphertext not block-aligned", ErrInvalidDataFormat)
	}

	padded := make([]byte, len(env.Ciphertext))
	cipher.NewCBCDecrypter(block, env.Nonce).CryptBlocks(padded, env.Ciphertext)

	plaintext, err := pkcs7.Unpad(padded, block.BlockSize())
	if err != nil {
		// Bad padding after decryption means a wrong key or tampered
		// ciphertext; report it as a decryption failure.
		return nil, fmt.Errorf("%w: padding validation", ErrDecryptionFailed)
	}
	return plaintext, nil
}

func sealGCM(key, nonce, plaintext, aad []byte) (*types.Envelope, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
	}

	sealed := aead.Seal(nil, nonce, plaintext, aad)
	return splitSealed(types.EncryptionAES256GCM, nonce, sealed, aead.Overhead())
}

func openGCM(env *types.Envelope, key, aad []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}
	return openAEAD(aead, env, aad)
}

func sealChaCha20(key, nonce, plaintext, aad []byte) (*types.Envelope, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
	}

	sealed := aead.Seal(nil, nonce, plaintext, aad)
	return splitSealed(types.EncryptionChaCha20Poly1305, nonce, sealed, aead.Overhead())
}

func openChaCha20(env *types.Envelope, key, aad []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}
	return openAEAD(aead, env, aad)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// splitSealed separates an AEAD's ciphertext||tag output into envelope
// fields, following the stored-envelope convention of keeping the tag
// explicit.
func splitSealed(alg types.EncryptionAlgorithm, nonce, sealed []byte, tagSize int) (*types.Envelope, error) {
	if len(sealed) < tagSize {
		return nil, fmt.Errorf("%w: sealed output shorter than tag", ErrEncryptionFailed)
	}
	return &types.Envelope{
		Algorithm:  alg,
		Nonce:      nonce,
		Tag:        sealed[len(sealed)-tagSize:],
		Ciphertext: sealed[:len(sealed)-tagSize],
	}, nil
}

// openAEAD reassembles ciphertext||tag and decrypts, failing closed on
// authentication failure.
func openAEAD(aead cipher.AEAD, env *types.Envelope, aad []byte) ([]byte, error) {
	if len(env.Nonce) != aead.NonceSize() {
		return nil, fmt.Errorf("%w: nonce length %d", ErrInvalidDataFormat, len(env.Nonce))
	}
	if len(env.Tag) != aead.Overhead() {
		return nil, fmt.Errorf("%w: tag length %d", ErrInvalidDataFormat, len(env.Tag))
	}

	sealed := make([]byte, 0, len(env.Ciphertext)+len(env.Tag))
	sealed = append(sealed, env.Ciphertext...)
	sealed = append(sealed, env.Tag...)

	plaintext, err := aead.Open(nil, env.Nonce, sealed, aad)
	if err != nil {
		return nil, fmt.Errorf("%w: authentication", ErrDecryptionFailed)
	}
	return plaintext, nil
}

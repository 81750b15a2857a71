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
	"fmt"

	"github.com/jeremyhahn/go-cryptoservices/pkg/crypto/kdf"
	"github.com/jeremyhahn/go-cryptoservices/pkg/logging"
	"github.com/jeremyhahn/go-cryptoservices/pkg/storage"
	"github.com/jeremyhahn/go-cryptoservices/pkg/types"
)

// KDFRecordSuffix is appended to a key identifier to name the derivation
// parameter record stored alongside a password-derived key. The record
// lets the key be re-derived from documented parameters.
const KDFRecordSuffix = ".kdf"

// GenerateKey produces new key material and persists it under a new
// identifier. Material is random unless a password is supplied, in which
// case it is derived with a freshly generated random salt.
type GenerateKey struct {
	command
}

// NewGenerateKey creates a generate-key command bound to the given storage.
func NewGenerateKey(store storage.SecureStorage, logger logging.Logger) *GenerateKey {
	return &GenerateKey{newCommand(store, logger)}
}

// Execute generates Bits/8 bytes of key material and returns the
// identifier it was stored under.
//
// With a non-empty opts.Password the material is derived via opts.KDF
// (providers substitute their documented default before dispatching here)
// and the derivation parameter record is stored under the key's
// identifier plus KDFRecordSuffix.
func (c *GenerateKey) Execute(opts types.KeyGenerationOptions) (string, error) {
	outputID, err := c.execute(opts)
	if err != nil {
		c.logFailure("generateKey", outputID, err)
		return "", err
	}

	bits := opts.Bits
	if bits == 0 {
		bits = 256
	}
	c.logSuccess("generateKey", outputID,
		logging.PublicEntry("bits", fmt.Sprintf("%d", bits)),
		logging.PublicEntry("password_derived", fmt.Sprintf("%t", opts.Password != "")),
	)
	return outputID, nil
}

func (c *GenerateKey) execute(opts types.KeyGenerationOptions) (string, error) {
	outputID := newOutputID()

	bits := opts.Bits
	if bits == 0 {
		bits = 256
	}
	if bits < 0 || bits%8 != 0 {
		return outputID, fmt.Errorf("%w: key length %d bits is not a positive multiple of 8", ErrInvalidInput, bits)
	}
	length := bits / 8

	var key []byte
	var record string
	var err error

	if opts.Password == "" {
		key, err = randomBytes(length)
		if err != nil {
			return outputID, fmt.Errorf("%w: %v", ErrKeyGenerationFailed, err)
		}
	} else {
		key, record, err = c.deriveFromPassword(opts, length)
		if err != nil {
			return outputID, err
		}
	}

	if err := c.storage.Store(key, outputID); err != nil {
		return outputID, err
	}
	if record != "" {
		if err := c.storage.Store([]byte(record), outputID+KDFRecordSuffix); err != nil {
			return outputID, err
		}
	}
	return outputID, nil
}

// deriveFromPassword derives key material with a fresh random salt and
// returns the material plus the serialized parameter record.
func (c *GenerateKey) deriveFromPassword(opts types.KeyGenerationOptions, length int) ([]byte, string, error) {
	if !opts.KDF.Valid() {
		return nil, "", fmt.Errorf("%w: key derivation function %q", ErrInvalidAlgorithm, opts.KDF)
	}

	salt, err := randomBytes(kdf.DefaultSaltSize)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrKeyGenerationFailed, err)
	}

	switch opts.KDF {
	case types.KDFPBKDF2:
		params := kdf.PBKDF2Params{Salt: salt, Iterations: opts.Iterations, Length: length}
		if params.Iterations == 0 {
			params.Iterations = kdf.DefaultPBKDF2Iterations
		}
		key, err := kdf.PBKDF2(opts.Password, params)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrKeyGenerationFailed, err)
		}
		return key, kdf.EncodePBKDF2Params(params), nil

	case types.KDFArgon2id:
		params := kdf.Argon2Params{
			Salt:        salt,
			Time:        kdf.DefaultArgon2Time,
			MemoryKiB:   opts.MemoryKiB,
			Parallelism: opts.Parallelism,
			Length:      length,
		}
		if params.MemoryKiB == 0 {
			params.MemoryKiB = kdf.DefaultArgon2MemoryKiB
		}
		if params.Parallelism == 0 {
			params.Parallelism = kdf.DefaultArgon2Parallelism
		}
		key, err := kdf.Argon2id(opts.Password, params)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrKeyGenerationFailed, err)
		}
		return key, kdf.EncodeArgon2Params(params), nil
	}

	return nil, "", fmt.Errorf("%w: key derivation function %q", ErrInvalidAlgorithm, opts.KDF)
}

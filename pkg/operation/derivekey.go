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
	"errors"
	"fmt"

	"github.com/jeremyhahn/go-cryptoservices/pkg/crypto/kdf"
	"github.com/jeremyhahn/go-cryptoservices/pkg/logging"
	"github.com/jeremyhahn/go-cryptoservices/pkg/storage"
	"github.com/jeremyhahn/go-cryptoservices/pkg/types"
)

// DeriveKey derives key material from a password and caller-supplied salt
// and persists it under a new identifier. Unlike GenerateKey, derivation
// is deterministic: the same password, salt, and cost parameters always
// yield the same key.
type DeriveKey struct {
	command
}

// NewDeriveKey creates a derive-key command bound to the given storage.
func NewDeriveKey(store storage.SecureStorage, logger logging.Logger) *DeriveKey {
	return &DeriveKey{newCommand(store, logger)}
}

// Execute derives opts.Length bytes of key material and returns the
// identifier it was stored under. Zero-valued cost parameters select the
// documented defaults in pkg/crypto/kdf.
func (c *DeriveKey) Execute(opts types.KeyDerivationOptions) (string, error) {
	outputID, err := c.execute(opts)
	if err != nil {
		c.logFailure("deriveKey", outputID, err)
		return "", err
	}

	c.logSuccess("deriveKey", outputID,
		logging.PublicEntry("kdf", opts.KDF.String()),
	)
	return outputID, nil
}

func (c *DeriveKey) execute(opts types.KeyDerivationOptions) (string, error) {
	outputID := newOutputID()

	if opts.Password == "" {
		return outputID, fmt.Errorf("%w: empty password", ErrInvalidInput)
	}
	if len(opts.Salt) == 0 {
		return outputID, fmt.Errorf("%w: empty salt", ErrInvalidInput)
	}
	if !opts.KDF.Valid() {
		return outputID, fmt.Errorf("%w: key derivation function %q", ErrInvalidAlgorithm, opts.KDF)
	}
	if opts.Length < 0 {
		return outputID, fmt.Errorf("%w: negative key length", ErrInvalidInput)
	}

	var key []byte
	var err error

	switch opts.KDF {
	case types.KDFPBKDF2:
		key, err = kdf.PBKDF2(opts.Password, kdf.PBKDF2Params{
			Salt:       opts.Salt,
			Iterations: opts.Iterations,
			Length:     opts.Length,
		})
	case types.KDFArgon2id:
		key, err = kdf.Argon2id(opts.Password, kdf.Argon2Params{
			Salt:        opts.Salt,
			Time:        kdf.DefaultArgon2Time,
			MemoryKiB:   opts.MemoryKiB,
			Parallelism: opts.Parallelism,
			Length:      opts.Length,
		})
	}
	if err != nil {
		if errors.Is(err, kdf.ErrInvalidParams) {
			return outputID, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return outputID, fmt.Errorf("%w: %v", ErrKeyGenerationFailed, err)
	}

	if err := c.storage.Store(key, outputID); err != nil {
		return outputID, err
	}
	return outputID, nil
}

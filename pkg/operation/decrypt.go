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

	"github.com/jeremyhahn/go-cryptoservices/pkg/logging"
	"github.com/jeremyhahn/go-cryptoservices/pkg/storage"
	"github.com/jeremyhahn/go-cryptoservices/pkg/types"
)

// Decrypt decrypts a stored ciphertext envelope with a stored key and
// persists the recovered plaintext under a new identifier.
type Decrypt struct {
	command
}

// NewDecrypt creates a decrypt command bound to the given storage.
func NewDecrypt(store storage.SecureStorage, logger logging.Logger) *Decrypt {
	return &Decrypt{newCommand(store, logger)}
}

// Execute decrypts the envelope stored under dataID with the key stored
// under keyID and returns the identifier of the stored plaintext.
//
// The envelope records the algorithm used at encryption time. When
// opts.Algorithm is set and disagrees with the envelope, the operation
// fails with ErrInvalidInput. Authenticated algorithms fail closed with
// ErrDecryptionFailed on tag mismatch.
func (c *Decrypt) Execute(dataID, keyID string, opts types.DecryptionOptions) (string, error) {
	outputID, alg, err := c.execute(dataID, keyID, opts)
	if err != nil {
		c.logFailure("decrypt", outputID, err)
		return "", err
	}

	c.logSuccess("decrypt", outputID,
		logging.PublicEntry("algorithm", alg.String()),
		logging.PrivateEntry("data_id", dataID),
		logging.PrivateEntry("key_id", keyID),
	)
	return outputID, nil
}

func (c *Decrypt) execute(dataID, keyID string, opts types.DecryptionOptions) (string, types.EncryptionAlgorithm, error) {
	outputID := newOutputID()

	if err := validateIdentifiers(dataID, keyID); err != nil {
		return outputID, "", err
	}

	blob, err := c.storage.Retrieve(dataID)
	if err != nil {
		return outputID, "", err
	}

	env, err := types.UnmarshalEnvelope(blob)
	if err != nil {
		if errors.Is(err, types.ErrInvalidEnvelope) {
			return outputID, "", fmt.Errorf("%w: %v", ErrInvalidDataFormat, err)
		}
		return outputID, "", err
	}
	if !env.Algorithm.Valid() {
		return outputID, "", fmt.Errorf("%w: envelope algorithm %q", ErrInvalidDataFormat, env.Algorithm)
	}
	if opts.Algorithm != "" && opts.Algorithm != env.Algorithm {
		return outputID, "", fmt.Errorf("%w: envelope algorithm %s does not match requested %s",
			ErrInvalidInput, env.Algorithm, opts.Algorithm)
	}

	key, err := c.storage.Retrieve(keyID)
	if err != nil {
		return outputID, "", err
	}
	if len(key) != env.Algorithm.KeySize() {
		return outputID, "", fmt.Errorf("%w: key is %d bytes, algorithm %s requires %d",
			ErrInvalidKeyLength, len(key), env.Algorithm, env.Algorithm.KeySize())
	}

	plaintext, err := open(env, key, opts.AAD)
	if err != nil {
		return outputID, "", err
	}

	if err := c.storage.Store(plaintext, outputID); err != nil {
		return outputID, "", err
	}
	return outputID, env.Algorithm, nil
}

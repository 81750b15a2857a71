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

	"github.com/jeremyhahn/go-cryptoservices/pkg/logging"
	"github.com/jeremyhahn/go-cryptoservices/pkg/storage"
	"github.com/jeremyhahn/go-cryptoservices/pkg/types"
)

// Encrypt encrypts a stored blob with a stored key and persists the
// resulting ciphertext envelope under a new identifier.
type Encrypt struct {
	command
}

// NewEncrypt creates an encrypt command bound to the given storage.
func NewEncrypt(store storage.SecureStorage, logger logging.Logger) *Encrypt {
	return &Encrypt{newCommand(store, logger)}
}

// Execute encrypts the blob stored under dataID with the key stored under
// keyID and returns the identifier of the stored ciphertext envelope.
//
// opts.Algorithm must be a valid algorithm; providers substitute their
// documented default before dispatching here. An explicit opts.IV must
// match the algorithm's required length; otherwise a random IV/nonce is
// generated.
func (c *Encrypt) Execute(dataID, keyID string, opts types.EncryptionOptions) (string, error) {
	outputID, err := c.execute(dataID, keyID, opts)
	if err != nil {
		c.logFailure("encrypt", outputID, err)
		return "", err
	}

	c.logSuccess("encrypt", outputID,
		logging.PublicEntry("algorithm", opts.Algorithm.String()),
		logging.PrivateEntry("data_id", dataID),
		logging.PrivateEntry("key_id", keyID),
	)
	return outputID, nil
}

func (c *Encrypt) execute(dataID, keyID string, opts types.EncryptionOptions) (string, error) {
	outputID := newOutputID()

	if err := validateIdentifiers(dataID, keyID); err != nil {
		return outputID, err
	}
	if !opts.Algorithm.Valid() {
		return outputID, fmt.Errorf("%w: %q", ErrInvalidAlgorithm, opts.Algorithm)
	}
	if opts.IV != nil && len(opts.IV) != opts.Algorithm.NonceSize() {
		return outputID, fmt.Errorf("%w: IV length %d, algorithm %s requires %d",
			ErrInvalidInput, len(opts.IV), opts.Algorithm, opts.Algorithm.NonceSize())
	}
	if len(opts.AAD) > 0 && !opts.Algorithm.Authenticated() {
		return outputID, fmt.Errorf("%w: %s does not support additional authenticated data",
			ErrInvalidInput, opts.Algorithm)
	}

	key, err := c.storage.Retrieve(keyID)
	if err != nil {
		return outputID, err
	}
	if len(key) != opts.Algorithm.KeySize() {
		return outputID, fmt.Errorf("%w: key is %d bytes, algorithm %s requires %d",
			ErrInvalidKeyLength, len(key), opts.Algorithm, opts.Algorithm.KeySize())
	}

	plaintext, err := c.storage.Retrieve(dataID)
	if err != nil {
		return outputID, err
	}

	nonce := opts.IV
	if nonce == nil {
		nonce, err = randomBytes(opts.Algorithm.NonceSize())
		if err != nil {
			return outputID, fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
		}
	}

	env, err := seal(opts.Algorithm, key, nonce, plaintext, opts.AAD)
	if err != nil {
		return outputID, err
	}

	blob, err := env.Marshal()
	if err != nil {
		return outputID, fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
	}
	if err := c.storage.Store(blob, outputID); err != nil {
		return outputID, err
	}
	return outputID, nil
}

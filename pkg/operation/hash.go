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
	"crypto/sha256"
	"crypto/sha512"
	"fmt"

	"github.com/jeremyhahn/go-cryptoservices/pkg/logging"
	"github.com/jeremyhahn/go-cryptoservices/pkg/storage"
	"github.com/jeremyhahn/go-cryptoservices/pkg/types"
	"lukechampine.com/blake3"
)

// Hash computes the digest of a stored blob and persists it under a new
// identifier.
type Hash struct {
	command
}

// NewHash creates a hash command bound to the given storage.
func NewHash(store storage.SecureStorage, logger logging.Logger) *Hash {
	return &Hash{newCommand(store, logger)}
}

// Execute hashes the blob stored under dataID and returns the identifier
// of the stored digest. An empty opts.Algorithm selects SHA-256.
func (c *Hash) Execute(dataID string, opts types.HashingOptions) (string, error) {
	outputID, alg, err := c.execute(dataID, opts)
	if err != nil {
		c.logFailure("hash", outputID, err)
		return "", err
	}

	c.logSuccess("hash", outputID,
		logging.PublicEntry("algorithm", alg.String()),
		logging.PrivateEntry("data_id", dataID),
	)
	return outputID, nil
}

func (c *Hash) execute(dataID string, opts types.HashingOptions) (string, types.HashAlgorithm, error) {
	outputID := newOutputID()

	if err := validateIdentifiers(dataID); err != nil {
		return outputID, "", err
	}

	alg := opts.Algorithm
	if alg == "" {
		alg = types.HashSHA256
	}
	if !alg.Valid() {
		return outputID, "", fmt.Errorf("%w: %q", ErrInvalidAlgorithm, alg)
	}

	data, err := c.storage.Retrieve(dataID)
	if err != nil {
		return outputID, "", err
	}

	digest, err := computeDigest(alg, data)
	if err != nil {
		return outputID, "", err
	}

	if err := c.storage.Store(digest, outputID); err != nil {
		return outputID, "", err
	}
	return outputID, alg, nil
}

// computeDigest hashes data with the given algorithm.
func computeDigest(alg types.HashAlgorithm, data []byte) ([]byte, error) {
	switch alg {
	case types.HashSHA256:
		sum := sha256.Sum256(data)
		return sum[:], nil
	case types.HashSHA384:
		sum := sha512.Sum384(data)
		return sum[:], nil
	case types.HashSHA512:
		sum := sha512.Sum512(data)
		return sum[:], nil
	case types.HashBLAKE3:
		sum := blake3.Sum256(data)
		return sum[:], nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidAlgorithm, alg)
}

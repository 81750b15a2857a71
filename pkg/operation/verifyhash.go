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
	"crypto/subtle"
	"fmt"
	"strconv"

	"github.com/jeremyhahn/go-cryptoservices/pkg/logging"
	"github.com/jeremyhahn/go-cryptoservices/pkg/storage"
	"github.com/jeremyhahn/go-cryptoservices/pkg/types"
)

// VerifyHash recomputes the digest of a stored blob and compares it
// against a stored expected digest in constant time.
type VerifyHash struct {
	command
}

// NewVerifyHash creates a verify-hash command bound to the given storage.
func NewVerifyHash(store storage.SecureStorage, logger logging.Logger) *VerifyHash {
	return &VerifyHash{newCommand(store, logger)}
}

// Execute recomputes the digest of the blob stored under dataID and
// compares it against the digest stored under hashID. The comparison does
// not early-exit on the first byte mismatch. A mismatch is a false result,
// not an error.
func (c *VerifyHash) Execute(dataID, hashID string, opts types.HashingOptions) (bool, error) {
	match, alg, err := c.execute(dataID, hashID, opts)
	if err != nil {
		c.logFailure("verifyHash", "", err)
		return false, err
	}

	c.logSuccess("verifyHash", "",
		logging.PublicEntry("algorithm", alg.String()),
		logging.PublicEntry("match", strconv.FormatBool(match)),
		logging.PrivateEntry("data_id", dataID),
		logging.PrivateEntry("hash_id", hashID),
	)
	return match, nil
}

func (c *VerifyHash) execute(dataID, hashID string, opts types.HashingOptions) (bool, types.HashAlgorithm, error) {
	if err := validateIdentifiers(dataID, hashID); err != nil {
		return false, "", err
	}

	alg := opts.Algorithm
	if alg == "" {
		alg = types.HashSHA256
	}
	if !alg.Valid() {
		return false, "", fmt.Errorf("%w: %q", ErrInvalidAlgorithm, alg)
	}

	data, err := c.storage.Retrieve(dataID)
	if err != nil {
		return false, "", err
	}
	expected, err := c.storage.Retrieve(hashID)
	if err != nil {
		return false, "", err
	}

	digest, err := computeDigest(alg, data)
	if err != nil {
		return false, "", err
	}

	return subtle.ConstantTimeCompare(digest, expected) == 1, alg, nil
}

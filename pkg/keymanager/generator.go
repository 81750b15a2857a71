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

package keymanager

import (
	"crypto/rand"
	"fmt"
)

// KeyGenerator mints key material for the key manager. Injected so tests
// and deployments with external entropy sources can substitute their own.
type KeyGenerator interface {
	// GenerateKey returns length bytes of fresh key material.
	GenerateKey(length int) ([]byte, error)
}

// RandomKeyGenerator generates keys from crypto/rand.
type RandomKeyGenerator struct{}

var _ KeyGenerator = (*RandomKeyGenerator)(nil)

// GenerateKey returns length bytes from the system CSPRNG.
func (RandomKeyGenerator) GenerateKey(length int) ([]byte, error) {
	if length <= 0 {
		return nil, fmt.Errorf("%w: key length %d", ErrInvalidInput, length)
	}
	key := make([]byte, length)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}

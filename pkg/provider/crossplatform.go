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

package provider

import (
	"github.com/jeremyhahn/go-cryptoservices/pkg/logging"
	"github.com/jeremyhahn/go-cryptoservices/pkg/storage"
	"github.com/jeremyhahn/go-cryptoservices/pkg/types"
)

// CrossPlatformProvider produces output that decrypts identically on every
// platform. It supports ChaCha20-Poly1305, the SHA-2 family plus BLAKE3,
// and both PBKDF2 and Argon2id, defaulting to ChaCha20-Poly1305 and
// Argon2id.
type CrossPlatformProvider struct {
	*service
}

var _ Provider = (*CrossPlatformProvider)(nil)

// NewCrossPlatformProvider creates a cross-platform provider bound to the
// given storage. A nil logger selects the default logger.
func NewCrossPlatformProvider(store storage.SecureStorage, logger logging.Logger) (*CrossPlatformProvider, error) {
	if store == nil {
		return nil, ErrNilStorage
	}
	return &CrossPlatformProvider{
		service: newService(
			types.ServiceTypeCrossPlatform,
			types.Capabilities{
				ChaCha20Poly1305: true,
				SHA2:             true,
				BLAKE3:           true,
				PBKDF2:           true,
				Argon2id:         true,
			},
			types.EncryptionChaCha20Poly1305,
			types.HashSHA256,
			types.KDFArgon2id,
			store,
			logger,
		),
	}, nil
}

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

// PlatformProvider targets deployments where keys are expected to live
// behind platform hardware security. Its matrix is deliberately narrow:
// AES-256-GCM only, the SHA-2 family, and PBKDF2. Requests outside the
// matrix fail rather than fall back to another provider.
type PlatformProvider struct {
	*service
}

var _ Provider = (*PlatformProvider)(nil)

// NewPlatformProvider creates a platform native provider bound to the given
// storage. A nil logger selects the default logger.
func NewPlatformProvider(store storage.SecureStorage, logger logging.Logger) (*PlatformProvider, error) {
	if store == nil {
		return nil, ErrNilStorage
	}
	return &PlatformProvider{
		service: newService(
			types.ServiceTypePlatformNative,
			types.Capabilities{
				AESGCM: true,
				SHA2:   true,
				PBKDF2: true,
			},
			types.EncryptionAES256GCM,
			types.HashSHA256,
			types.KDFPBKDF2,
			store,
			logger,
		),
	}, nil
}

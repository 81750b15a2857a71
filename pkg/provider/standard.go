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

// StandardProvider is the software provider for conventional deployments.
// It supports AES-256-CBC and AES-256-GCM, the SHA-2 family, and PBKDF2,
// defaulting to AES-256-GCM.
type StandardProvider struct {
	*service
}

var _ Provider = (*StandardProvider)(nil)

// NewStandardProvider creates a standard provider bound to the given
// storage. A nil logger selects the default logger.
func NewStandardProvider(store storage.SecureStorage, logger logging.Logger) (*StandardProvider, error) {
	if store == nil {
		return nil, ErrNilStorage
	}
	return &StandardProvider{
		service: newService(
			types.ServiceTypeStandard,
			types.Capabilities{
				AESCBC: true,
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

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
	"fmt"
	"sync"

	"github.com/jeremyhahn/go-cryptoservices/pkg/logging"
	"github.com/jeremyhahn/go-cryptoservices/pkg/storage"
	"github.com/jeremyhahn/go-cryptoservices/pkg/types"
)

// Loader constructs providers from an explicit service type selector and an
// environment descriptor. Selection is deliberate: an unknown selector or an
// environment that cannot satisfy the selector is an error, never a fallback
// to a different provider. At most one provider instance exists per service
// type for the lifetime of the loader.
type Loader struct {
	storage storage.SecureStorage
	logger  logging.Logger

	mu    sync.Mutex
	cache map[types.ServiceType]Provider
}

// NewLoader creates a loader that binds all loaded providers to the given
// storage. A nil logger selects the default logger.
func NewLoader(store storage.SecureStorage, logger logging.Logger) (*Loader, error) {
	if store == nil {
		return nil, ErrNilStorage
	}
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	return &Loader{
		storage: store,
		logger:  logger,
		cache:   make(map[types.ServiceType]Provider),
	}, nil
}

// Load returns the provider for the given service type, constructing it on
// first use. The platform native provider requires hardware security in the
// environment descriptor.
func (l *Loader) Load(serviceType types.ServiceType, env types.Environment) (Provider, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if p, ok := l.cache[serviceType]; ok {
		return p, nil
	}

	logger := l.logger
	if env.EnhancedLogging {
		if sl, ok := logger.(*logging.SlogLogger); ok {
			logger = sl.WithPrivateRendering()
		}
	}

	var p Provider
	var err error

	switch serviceType {
	case types.ServiceTypeStandard:
		p, err = NewStandardProvider(l.storage, logger)
	case types.ServiceTypePlatformNative:
		if !env.HardwareSecurity {
			return nil, fmt.Errorf("%w: %s requested in stage %s",
				ErrHardwareUnavailable, serviceType, env.Stage)
		}
		p, err = NewPlatformProvider(l.storage, logger)
	case types.ServiceTypeCrossPlatform:
		p, err = NewCrossPlatformProvider(l.storage, logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownServiceType, serviceType)
	}
	if err != nil {
		return nil, err
	}

	l.cache[serviceType] = p
	return p, nil
}

// Close closes every provider the loader constructed.
func (l *Loader) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var firstErr error
	for serviceType, p := range l.cache {
		if err := p.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(l.cache, serviceType)
	}
	return firstErr
}

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

import "errors"

var (
	// ErrProviderClosed is returned when a provider is used after Close.
	ErrProviderClosed = errors.New("provider: provider is closed")

	// ErrUnknownServiceType is returned by the loader for a service type
	// outside the known enumeration.
	ErrUnknownServiceType = errors.New("provider: unknown service type")

	// ErrHardwareUnavailable is returned by the loader when the platform
	// native provider is requested in an environment without hardware
	// security support. There is no fallback between providers.
	ErrHardwareUnavailable = errors.New("provider: hardware security unavailable")

	// ErrNilStorage is returned when a provider is constructed without a
	// secure storage implementation.
	ErrNilStorage = errors.New("provider: nil secure storage")
)

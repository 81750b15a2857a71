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

import "errors"

var (
	// ErrKeyNotFound is returned when no key exists under the requested
	// identifier.
	ErrKeyNotFound = errors.New("keymanager: key not found")

	// ErrInvalidInput is returned for empty or malformed identifiers and
	// empty key material.
	ErrInvalidInput = errors.New("keymanager: invalid input")

	// ErrRotationFailed is returned when rotation cannot complete. The old
	// key remains in place; no partial state is stored.
	ErrRotationFailed = errors.New("keymanager: rotation failed")
)

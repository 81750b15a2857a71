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

package storage

import "errors"

var (
	// ErrClosed is returned when attempting to use a closed storage.
	ErrClosed = errors.New("storage: closed")

	// ErrDataNotFound is returned when no blob exists under an identifier.
	ErrDataNotFound = errors.New("storage: data not found")

	// ErrInvalidIdentifier is returned when an identifier is empty or malformed.
	ErrInvalidIdentifier = errors.New("storage: invalid identifier")
)

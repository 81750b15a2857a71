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

// Package pkcs7 implements PKCS#7 padding (RFC 5652 §6.3) for block cipher
// modes that require full blocks, such as AES-CBC.
package pkcs7

import (
	"bytes"
	"errors"
	"fmt"
)

// ErrInvalidPadding is returned when padded data fails validation.
var ErrInvalidPadding = errors.New("pkcs7: invalid padding")

// Pad appends PKCS#7 padding so len(result) is a multiple of blockSize.
// Data that is already block-aligned receives a full block of padding.
func Pad(data []byte, blockSize int) ([]byte, error) {
	if blockSize <= 0 || blockSize > 255 {
		return nil, fmt.Errorf("pkcs7: invalid block size %d", blockSize)
	}

	padLen := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	copy(padded[len(data):], bytes.Repeat([]byte{byte(padLen)}, padLen))
	return padded, nil
}

// Unpad validates and removes PKCS#7 padding.
// Returns ErrInvalidPadding if the data is empty, not block-aligned, or
// carries an inconsistent padding suffix.
func Unpad(data []byte, blockSize int) ([]byte, error) {
	if blockSize <= 0 || blockSize > 255 {
		return nil, fmt.Errorf("pkcs7: invalid block size %d", blockSize)
	}
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrInvalidPadding
	}

	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > blockSize || padLen > len(data) {
		return nil, ErrInvalidPadding
	}
	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, ErrInvalidPadding
		}
	}
	return data[:len(data)-padLen], nil
}

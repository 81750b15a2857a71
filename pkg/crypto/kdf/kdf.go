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

// Package kdf implements the password-based key derivation functions used
// by the providers: PBKDF2-HMAC-SHA512 and Argon2id. Default cost
// parameters are exported constants so derived keys are always
// re-derivable from documented values.
package kdf

import (
	"crypto/sha512"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
)

// PBKDF2 defaults (OWASP password storage guidance for PBKDF2-HMAC-SHA512).
const (
	// DefaultPBKDF2Iterations is the default PBKDF2 iteration count.
	DefaultPBKDF2Iterations = 210000
)

// Argon2id defaults (RFC 9106 second recommended parameter set).
const (
	// DefaultArgon2Time is the default Argon2id time cost (passes).
	DefaultArgon2Time uint32 = 3

	// DefaultArgon2MemoryKiB is the default Argon2id memory cost (64 MiB).
	DefaultArgon2MemoryKiB uint32 = 64 * 1024

	// DefaultArgon2Parallelism is the default Argon2id lane count.
	DefaultArgon2Parallelism uint8 = 4
)

// DefaultSaltSize is the salt length in bytes generated for password-based
// key generation.
const DefaultSaltSize = 16

// ErrInvalidParams is returned when derivation parameters are invalid or a
// serialized parameter record is malformed.
var ErrInvalidParams = errors.New("kdf: invalid parameters")

// PBKDF2Params carries the inputs needed to re-derive a PBKDF2 key.
type PBKDF2Params struct {
	Salt       []byte
	Iterations int
	Length     int
}

// Argon2Params carries the inputs needed to re-derive an Argon2id key.
type Argon2Params struct {
	Salt        []byte
	Time        uint32
	MemoryKiB   uint32
	Parallelism uint8
	Length      int
}

// PBKDF2 derives a key from password and salt using PBKDF2-HMAC-SHA512.
// Zero-valued cost parameters select the documented defaults.
func PBKDF2(password string, p PBKDF2Params) ([]byte, error) {
	if password == "" {
		return nil, fmt.Errorf("%w: empty password", ErrInvalidParams)
	}
	if len(p.Salt) == 0 {
		return nil, fmt.Errorf("%w: empty salt", ErrInvalidParams)
	}
	if p.Iterations == 0 {
		p.Iterations = DefaultPBKDF2Iterations
	}
	if p.Iterations < 0 {
		return nil, fmt.Errorf("%w: negative iteration count", ErrInvalidParams)
	}
	if p.Length == 0 {
		p.Length = 32
	}
	if p.Length < 0 {
		return nil, fmt.Errorf("%w: negative key length", ErrInvalidParams)
	}

	return pbkdf2.Key([]byte(password), p.Salt, p.Iterations, p.Length, sha512.New), nil
}

// Argon2id derives a key from password and salt using Argon2id.
// Zero-valued cost parameters select the documented defaults.
func Argon2id(password string, p Argon2Params) ([]byte, error) {
	if password == "" {
		return nil, fmt.Errorf("%w: empty password", ErrInvalidParams)
	}
	if len(p.Salt) == 0 {
		return nil, fmt.Errorf("%w: empty salt", ErrInvalidParams)
	}
	if p.Time == 0 {
		p.Time = DefaultArgon2Time
	}
	if p.MemoryKiB == 0 {
		p.MemoryKiB = DefaultArgon2MemoryKiB
	}
	if p.Parallelism == 0 {
		p.Parallelism = DefaultArgon2Parallelism
	}
	if p.Length == 0 {
		p.Length = 32
	}
	if p.Length < 0 {
		return nil, fmt.Errorf("%w: negative key length", ErrInvalidParams)
	}

	// #nosec G115 - Length is validated non-negative above
	return argon2.IDKey([]byte(password), p.Salt, p.Time, p.MemoryKiB, p.Parallelism, uint32(p.Length)), nil
}

// EncodePBKDF2Params serializes PBKDF2 parameters in a crypt-style record:
// $pbkdf2-sha512$i=<iterations>,l=<length>$<salt-b64>
func EncodePBKDF2Params(p PBKDF2Params) string {
	return fmt.Sprintf("$pbkdf2-sha512$i=%d,l=%d$%s",
		p.Iterations, p.Length, base64.RawStdEncoding.EncodeToString(p.Salt))
}

// EncodeArgon2Params serializes Argon2id parameters in the standard
// crypt-style record: $argon2id$v=19$m=<mem>,t=<time>,p=<lanes>,l=<length>$<salt-b64>
func EncodeArgon2Params(p Argon2Params) string {
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d,l=%d$%s",
		argon2.Version, p.MemoryKiB, p.Time, p.Parallelism, p.Length,
		base64.RawStdEncoding.EncodeToString(p.Salt))
}

// DecodePBKDF2Params parses a record produced by EncodePBKDF2Params.
func DecodePBKDF2Params(record string) (PBKDF2Params, error) {
	var p PBKDF2Params
	parts := strings.Split(record, "$")
	if len(parts) != 4 || parts[0] != "" || parts[1] != "pbkdf2-sha512" {
		return p, fmt.Errorf("%w: malformed pbkdf2 record", ErrInvalidParams)
	}
	if _, err := fmt.Sscanf(parts[2], "i=%d,l=%d", &p.Iterations, &p.Length); err != nil {
		return p, fmt.Errorf("%w: malformed pbkdf2 costs", ErrInvalidParams)
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil {
		return p, fmt.Errorf("%w: malformed pbkdf2 salt", ErrInvalidParams)
	}
	p.Salt = salt
	return p, nil
}

// DecodeArgon2Params parses a record produced by EncodeArgon2Params.
func DecodeArgon2Params(record string) (Argon2Params, error) {
	var p Argon2Params
	parts := strings.Split(record, "$")
	if len(parts) != 5 || parts[0] != "" || parts[1] != "argon2id" {
		return p, fmt.Errorf("%w: malformed argon2id record", ErrInvalidParams)
	}
	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return p, fmt.Errorf("%w: unsupported argon2id version", ErrInvalidParams)
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d,l=%d",
		&p.MemoryKiB, &p.Time, &p.Parallelism, &p.Length); err != nil {
		return p, fmt.Errorf("%w: malformed argon2id costs", ErrInvalidParams)
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return p, fmt.Errorf("%w: malformed argon2id salt", ErrInvalidParams)
	}
	p.Salt = salt
	return p, nil
}

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

package types

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// envelopeVersion is the current envelope wire format version.
const envelopeVersion = 0x01

// ErrInvalidEnvelope is returned when envelope bytes are malformed or use
// an unsupported version.
var ErrInvalidEnvelope = errors.New("types: invalid ciphertext envelope")

// Envelope is the stored form of every encrypt operation's output. It binds
// the ciphertext to the algorithm and IV/nonce used to produce it so decrypt
// needs nothing beyond the key.
//
// Wire Format (version 1):
//
//	Version: 1 byte (0x01)
//	Algorithm Length: 2 bytes (big-endian uint16)
//	Algorithm: variable bytes (UTF-8 string)
//	Nonce Length: 2 bytes (big-endian uint16)
//	Nonce: variable bytes (the IV for CBC)
//	Tag Length: 2 bytes (big-endian uint16)
//	Tag: variable bytes (empty for non-AEAD algorithms)
//	Ciphertext Length: 4 bytes (big-endian uint32)
//	Ciphertext: variable bytes
type Envelope struct {
	// Algorithm identifies the encryption algorithm used.
	Algorithm EncryptionAlgorithm

	// Nonce is the IV/nonce the ciphertext was produced with.
	Nonce []byte

	// Tag is the authentication tag for AEAD algorithms, empty otherwise.
	Tag []byte

	// Ciphertext is the encrypted payload (PKCS#7 padded for CBC).
	Ciphertext []byte
}

// Marshal serializes the envelope for storage.
func (e *Envelope) Marshal() ([]byte, error) {
	if e == nil {
		return nil, fmt.Errorf("%w: envelope is nil", ErrInvalidEnvelope)
	}

	algBytes := []byte(e.Algorithm)
	if len(algBytes) > 65535 || len(e.Nonce) > 65535 || len(e.Tag) > 65535 {
		return nil, fmt.Errorf("%w: field too long", ErrInvalidEnvelope)
	}
	if uint64(len(e.Ciphertext)) > 4294967295 {
		return nil, fmt.Errorf("%w: ciphertext too long", ErrInvalidEnvelope)
	}

	buf := new(bytes.Buffer)
	buf.WriteByte(envelopeVersion)

	writeField := func(field []byte) {
		_ = binary.Write(buf, binary.BigEndian, uint16(len(field)))
		buf.Write(field)
	}
	writeField(algBytes)
	writeField(e.Nonce)
	writeField(e.Tag)

	_ = binary.Write(buf, binary.BigEndian, uint32(len(e.Ciphertext)))
	buf.Write(e.Ciphertext)

	return buf.Bytes(), nil
}

// UnmarshalEnvelope deserializes envelope bytes produced by Marshal.
// Returns ErrInvalidEnvelope if the data is malformed or uses an
// unsupported version.
func UnmarshalEnvelope(data []byte) (*Envelope, error) {
	if len(data) < 1 {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidEnvelope)
	}

	r := bytes.NewReader(data)

	version, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read version", ErrInvalidEnvelope)
	}
	if version != envelopeVersion {
		return nil, fmt.Errorf("%w: unsupported version 0x%02x", ErrInvalidEnvelope, version)
	}

	readField := func() ([]byte, error) {
		var length uint16
		if err := binary.Read(r, binary.BigEndian, &length); err != nil {
			return nil, fmt.Errorf("%w: truncated field length", ErrInvalidEnvelope)
		}
		field := make([]byte, length)
		if _, err := io.ReadFull(r, field); err != nil {
			return nil, fmt.Errorf("%w: truncated field", ErrInvalidEnvelope)
		}
		return field, nil
	}

	algBytes, err := readField()
	if err != nil {
		return nil, err
	}
	nonce, err := readField()
	if err != nil {
		return nil, err
	}
	tag, err := readField()
	if err != nil {
		return nil, err
	}

	var ctLen uint32
	if err := binary.Read(r, binary.BigEndian, &ctLen); err != nil {
		return nil, fmt.Errorf("%w: truncated ciphertext length", ErrInvalidEnvelope)
	}
	ciphertext := make([]byte, ctLen)
	if _, err := io.ReadFull(r, ciphertext); err != nil {
		return nil, fmt.Errorf("%w: truncated ciphertext", ErrInvalidEnvelope)
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrInvalidEnvelope, r.Len())
	}

	return &Envelope{
		Algorithm:  EncryptionAlgorithm(algBytes),
		Nonce:      nonce,
		Tag:        tag,
		Ciphertext: ciphertext,
	}, nil
}

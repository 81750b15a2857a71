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

package pkcs7

import (
	"bytes"
	"errors"
	"testing"
)

func TestPadUnpad_RoundTrip(t *testing.T) {
	const blockSize = 16

	for length := 0; length <= 48; length++ {
		data := bytes.Repeat([]byte{0x5A}, length)
		padded, err := Pad(data, blockSize)
		if err != nil {
			t.Fatalf("Pad(len=%d) failed: %v", length, err)
		}
		if len(padded)%blockSize != 0 {
			t.Errorf("Pad(len=%d) produced %d bytes, not block-aligned", length, len(padded))
		}

		unpadded, err := Unpad(padded, blockSize)
		if err != nil {
			t.Fatalf("Unpad(len=%d) failed: %v", length, err)
		}
		if !bytes.Equal(unpadded, data) {
			t.Errorf("round trip mismatch at len=%d", length)
		}
	}
}

func TestPad_AlignedInputGetsFullBlock(t *testing.T) {
	data := bytes.Repeat([]byte{0x01}, 16)
	padded, err := Pad(data, 16)
	if err != nil {
		t.Fatalf("Pad() failed: %v", err)
	}
	if len(padded) != 32 {
		t.Errorf("Pad() length = %d, want 32", len(padded))
	}
	if padded[31] != 16 {
		t.Errorf("padding byte = %d, want 16", padded[31])
	}
}

func TestUnpad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"not block aligned", bytes.Repeat([]byte{0x01}, 15)},
		{"zero padding byte", append(bytes.Repeat([]byte{0x01}, 15), 0)},
		{"padding longer than block", append(bytes.Repeat([]byte{0x01}, 15), 17)},
		{"inconsistent padding", append(bytes.Repeat([]byte{0x02}, 14), 0x01, 0x02)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Unpad(tt.data, 16); !errors.Is(err, ErrInvalidPadding) {
				t.Errorf("Unpad() error = %v, want ErrInvalidPadding", err)
			}
		})
	}
}

func TestPad_InvalidBlockSize(t *testing.T) {
	if _, err := Pad([]byte("x"), 0); err == nil {
		t.Errorf("Pad(blockSize=0) should fail")
	}
	if _, err := Unpad([]byte("x"), 256); err == nil {
		t.Errorf("Unpad(blockSize=256) should fail")
	}
}

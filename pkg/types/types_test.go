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

import "testing"

func TestEncryptionAlgorithm_Sizes(t *testing.T) {
	tests := []struct {
		alg           EncryptionAlgorithm
		keySize       int
		nonceSize     int
		authenticated bool
	}{
		{EncryptionAES256CBC, 32, 16, false},
		{EncryptionAES256GCM, 32, 12, true},
		{EncryptionChaCha20Poly1305, 32, 12, true},
	}

	for _, tt := range tests {
		t.Run(tt.alg.String(), func(t *testing.T) {
			if !tt.alg.Valid() {
				t.Errorf("Valid() = false, want true")
			}
			if got := tt.alg.KeySize(); got != tt.keySize {
				t.Errorf("KeySize() = %d, want %d", got, tt.keySize)
			}
			if got := tt.alg.NonceSize(); got != tt.nonceSize {
				t.Errorf("NonceSize() = %d, want %d", got, tt.nonceSize)
			}
			if got := tt.alg.Authenticated(); got != tt.authenticated {
				t.Errorf("Authenticated() = %v, want %v", got, tt.authenticated)
			}
		})
	}

	var unknown EncryptionAlgorithm = "des"
	if unknown.Valid() || unknown.KeySize() != 0 || unknown.NonceSize() != 0 {
		t.Errorf("unknown algorithm should be invalid with zero sizes")
	}
}

func TestHashAlgorithm_Sizes(t *testing.T) {
	tests := []struct {
		alg  HashAlgorithm
		size int
	}{
		{HashSHA256, 32},
		{HashSHA384, 48},
		{HashSHA512, 64},
		{HashBLAKE3, 32},
	}

	for _, tt := range tests {
		if got := tt.alg.Size(); got != tt.size {
			t.Errorf("%s Size() = %d, want %d", tt.alg, got, tt.size)
		}
	}
}

func TestParseServiceType(t *testing.T) {
	tests := []struct {
		in   string
		want ServiceType
	}{
		{"standard", ServiceTypeStandard},
		{"platformNative", ServiceTypePlatformNative},
		{"platform-native", ServiceTypePlatformNative},
		{"crossPlatform", ServiceTypeCrossPlatform},
		{"cross-platform", ServiceTypeCrossPlatform},
		{"CROSSPLATFORM", ServiceTypeCrossPlatform},
		{"bogus", ""},
	}

	for _, tt := range tests {
		if got := ParseServiceType(tt.in); got != tt.want {
			t.Errorf("ParseServiceType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCapabilities_Matrix(t *testing.T) {
	standard := Capabilities{AESCBC: true, AESGCM: true, SHA2: true, PBKDF2: true}

	if !standard.SupportsEncryption(EncryptionAES256CBC) {
		t.Errorf("standard should support AES-CBC")
	}
	if standard.SupportsEncryption(EncryptionChaCha20Poly1305) {
		t.Errorf("standard should not support ChaCha20-Poly1305")
	}
	if standard.SupportsHash(HashBLAKE3) {
		t.Errorf("standard should not support BLAKE3")
	}
	if standard.SupportsKDF(KDFArgon2id) {
		t.Errorf("standard should not support Argon2id")
	}
	if !standard.SupportsKDF(KDFPBKDF2) {
		t.Errorf("standard should support PBKDF2")
	}
}

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
	"bytes"
	"errors"
	"testing"

	"github.com/jeremyhahn/go-cryptoservices/pkg/operation"
	"github.com/jeremyhahn/go-cryptoservices/pkg/storage"
	"github.com/jeremyhahn/go-cryptoservices/pkg/types"
)

func newProviders(t *testing.T) (storage.SecureStorage, *StandardProvider, *PlatformProvider, *CrossPlatformProvider) {
	t.Helper()
	s := storage.NewMemoryStorage()
	t.Cleanup(func() { _ = s.Close() })

	std, err := NewStandardProvider(s, nil)
	if err != nil {
		t.Fatalf("NewStandardProvider failed: %v", err)
	}
	plat, err := NewPlatformProvider(s, nil)
	if err != nil {
		t.Fatalf("NewPlatformProvider failed: %v", err)
	}
	cross, err := NewCrossPlatformProvider(s, nil)
	if err != nil {
		t.Fatalf("NewCrossPlatformProvider failed: %v", err)
	}
	return s, std, plat, cross
}

func TestProviderDefaults(t *testing.T) {
	_, std, plat, cross := newProviders(t)

	if got := std.DefaultEncryptionAlgorithm(); got != types.EncryptionAES256GCM {
		t.Errorf("standard default = %s, want aes-256-gcm", got)
	}
	if got := plat.DefaultEncryptionAlgorithm(); got != types.EncryptionAES256GCM {
		t.Errorf("platform default = %s, want aes-256-gcm", got)
	}
	if got := cross.DefaultEncryptionAlgorithm(); got != types.EncryptionChaCha20Poly1305 {
		t.Errorf("cross-platform default = %s, want chacha20-poly1305", got)
	}
}

func TestCapabilityMatrix(t *testing.T) {
	_, std, plat, cross := newProviders(t)

	tests := []struct {
		name     string
		provider Provider
		enc      map[types.EncryptionAlgorithm]bool
		hash     map[types.HashAlgorithm]bool
		kdf      map[types.KeyDerivationFunction]bool
	}{
		{
			name:     "standard",
			provider: std,
			enc: map[types.EncryptionAlgorithm]bool{
				types.EncryptionAES256CBC:        true,
				types.EncryptionAES256GCM:        true,
				types.EncryptionChaCha20Poly1305: false,
			},
			hash: map[types.HashAlgorithm]bool{
				types.HashSHA256: true,
				types.HashSHA384: true,
				types.HashSHA512: true,
				types.HashBLAKE3: false,
			},
			kdf: map[types.KeyDerivationFunction]bool{
				types.KDFPBKDF2:   true,
				types.KDFArgon2id: false,
			},
		},
		{
			name:     "platform",
			provider: plat,
			enc: map[types.EncryptionAlgorithm]bool{
				types.EncryptionAES256CBC:        false,
				types.EncryptionAES256GCM:        true,
				types.EncryptionChaCha20Poly1305: false,
			},
			hash: map[types.HashAlgorithm]bool{
				types.HashSHA256: true,
				types.HashBLAKE3: false,
			},
			kdf: map[types.KeyDerivationFunction]bool{
				types.KDFPBKDF2:   true,
				types.KDFArgon2id: false,
			},
		},
		{
			name:     "crossplatform",
			provider: cross,
			enc: map[types.EncryptionAlgorithm]bool{
				types.EncryptionAES256CBC:        false,
				types.EncryptionAES256GCM:        false,
				types.EncryptionChaCha20Poly1305: true,
			},
			hash: map[types.HashAlgorithm]bool{
				types.HashSHA256: true,
				types.HashBLAKE3: true,
			},
			kdf: map[types.KeyDerivationFunction]bool{
				types.KDFPBKDF2:   true,
				types.KDFArgon2id: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps := tt.provider.Capabilities()
			for alg, want := range tt.enc {
				if got := caps.SupportsEncryption(alg); got != want {
					t.Errorf("SupportsEncryption(%s) = %t, want %t", alg, got, want)
				}
			}
			for alg, want := range tt.hash {
				if got := caps.SupportsHash(alg); got != want {
					t.Errorf("SupportsHash(%s) = %t, want %t", alg, got, want)
				}
			}
			for alg, want := range tt.kdf {
				if got := caps.SupportsKDF(alg); got != want {
					t.Errorf("SupportsKDF(%s) = %t, want %t", alg, got, want)
				}
			}
		})
	}
}

func TestProviderEncryptDecrypt_DefaultAlgorithm(t *testing.T) {
	s, std, _, cross := newProviders(t)

	if err := s.Store([]byte{0, 1, 2, 3, 4, 5}, "data1"); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	for _, p := range []Provider{std, cross} {
		keyID, err := p.GenerateKey(types.KeyGenerationOptions{Bits: 256})
		if err != nil {
			t.Fatalf("GenerateKey failed: %v", err)
		}

		encID, err := p.Encrypt("data1", keyID, types.EncryptionOptions{})
		if err != nil {
			t.Fatalf("Encrypt failed: %v", err)
		}

		blob, err := s.Retrieve(encID)
		if err != nil {
			t.Fatalf("Retrieve failed: %v", err)
		}
		env, err := types.UnmarshalEnvelope(blob)
		if err != nil {
			t.Fatalf("UnmarshalEnvelope failed: %v", err)
		}
		if env.Algorithm != p.DefaultEncryptionAlgorithm() {
			t.Errorf("envelope algorithm = %s, want provider default %s",
				env.Algorithm, p.DefaultEncryptionAlgorithm())
		}

		decID, err := p.Decrypt(encID, keyID, types.DecryptionOptions{})
		if err != nil {
			t.Fatalf("Decrypt failed: %v", err)
		}
		plaintext, _ := s.Retrieve(decID)
		if !bytes.Equal(plaintext, []byte{0, 1, 2, 3, 4, 5}) {
			t.Errorf("round trip = %v, want [0 1 2 3 4 5]", plaintext)
		}
	}
}

func TestProviderRejectsOutOfMatrixAlgorithm(t *testing.T) {
	s, std, plat, cross := newProviders(t)

	if err := s.Store([]byte("payload"), "data1"); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	keyID, err := std.GenerateKey(types.KeyGenerationOptions{Bits: 256})
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}

	tests := []struct {
		name     string
		provider Provider
		alg      types.EncryptionAlgorithm
	}{
		{"standard rejects chacha20", std, types.EncryptionChaCha20Poly1305},
		{"platform rejects cbc", plat, types.EncryptionAES256CBC},
		{"crossplatform rejects gcm", cross, types.EncryptionAES256GCM},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.provider.Encrypt("data1", keyID, types.EncryptionOptions{Algorithm: tt.alg})
			if !errors.Is(err, operation.ErrUnsupportedOperation) {
				t.Errorf("Encrypt error = %v, want ErrUnsupportedOperation", err)
			}
		})
	}
}

func TestProviderRejectsUnknownAlgorithm(t *testing.T) {
	s, std, _, _ := newProviders(t)

	if err := s.Store([]byte("payload"), "data1"); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	keyID, err := std.GenerateKey(types.KeyGenerationOptions{Bits: 256})
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}

	if _, err := std.Encrypt("data1", keyID, types.EncryptionOptions{Algorithm: "des"}); !errors.Is(err, operation.ErrInvalidAlgorithm) {
		t.Errorf("Encrypt error = %v, want ErrInvalidAlgorithm", err)
	}
	if _, err := std.Hash("data1", types.HashingOptions{Algorithm: "md5"}); !errors.Is(err, operation.ErrInvalidAlgorithm) {
		t.Errorf("Hash error = %v, want ErrInvalidAlgorithm", err)
	}
}

func TestProviderRejectsForeignCiphertext(t *testing.T) {
	s, std, _, cross := newProviders(t)

	if err := s.Store([]byte("payload"), "data1"); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	keyID, err := std.GenerateKey(types.KeyGenerationOptions{Bits: 256})
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}

	// Ciphertext produced under the standard matrix must not be opened by
	// the cross-platform provider even though both share the storage.
	encID, err := std.Encrypt("data1", keyID, types.EncryptionOptions{})
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	if _, err := cross.Decrypt(encID, keyID, types.DecryptionOptions{}); !errors.Is(err, operation.ErrUnsupportedOperation) {
		t.Errorf("Decrypt error = %v, want ErrUnsupportedOperation", err)
	}
}

func TestProviderHashBLAKE3OnlyCrossPlatform(t *testing.T) {
	s, std, _, cross := newProviders(t)

	if err := s.Store([]byte("payload"), "data1"); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	if _, err := std.Hash("data1", types.HashingOptions{Algorithm: types.HashBLAKE3}); !errors.Is(err, operation.ErrUnsupportedOperation) {
		t.Errorf("standard Hash(blake3) error = %v, want ErrUnsupportedOperation", err)
	}

	hashID, err := cross.Hash("data1", types.HashingOptions{Algorithm: types.HashBLAKE3})
	if err != nil {
		t.Fatalf("crossplatform Hash(blake3) failed: %v", err)
	}
	match, err := cross.VerifyHash("data1", hashID, types.HashingOptions{Algorithm: types.HashBLAKE3})
	if err != nil {
		t.Fatalf("VerifyHash failed: %v", err)
	}
	if !match {
		t.Errorf("VerifyHash = false, want true")
	}
}

func TestProviderKDFEnforcement(t *testing.T) {
	_, std, _, cross := newProviders(t)

	// Argon2id derivation is outside the standard matrix.
	_, err := std.DeriveKey(types.KeyDerivationOptions{
		Password: "p",
		Salt:     bytes.Repeat([]byte{1}, 16),
		KDF:      types.KDFArgon2id,
		Length:   32,
	})
	if !errors.Is(err, operation.ErrUnsupportedOperation) {
		t.Errorf("DeriveKey error = %v, want ErrUnsupportedOperation", err)
	}

	// The cross-platform provider defaults to Argon2id.
	id, err := cross.DeriveKey(types.KeyDerivationOptions{
		Password:    "p",
		Salt:        bytes.Repeat([]byte{1}, 16),
		Length:      32,
		MemoryKiB:   8 * 1024,
		Parallelism: 1,
	})
	if err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}
	if id == "" {
		t.Errorf("DeriveKey returned empty identifier")
	}
}

func TestProviderDataPlane(t *testing.T) {
	_, std, _, _ := newProviders(t)

	id, err := std.ImportData([]byte("imported"))
	if err != nil {
		t.Fatalf("ImportData failed: %v", err)
	}

	raw, err := std.ExportData(id)
	if err != nil {
		t.Fatalf("ExportData failed: %v", err)
	}
	if !bytes.Equal(raw, []byte("imported")) {
		t.Errorf("ExportData = %q, want %q", raw, "imported")
	}

	if err := std.StoreData([]byte("pinned"), "chosen-id"); err != nil {
		t.Fatalf("StoreData failed: %v", err)
	}
	raw, err = std.RetrieveData("chosen-id")
	if err != nil {
		t.Fatalf("RetrieveData failed: %v", err)
	}
	if !bytes.Equal(raw, []byte("pinned")) {
		t.Errorf("RetrieveData = %q, want %q", raw, "pinned")
	}

	if err := std.DeleteData("chosen-id"); err != nil {
		t.Fatalf("DeleteData failed: %v", err)
	}
	if _, err := std.RetrieveData("chosen-id"); !errors.Is(err, storage.ErrDataNotFound) {
		t.Errorf("RetrieveData after delete error = %v, want ErrDataNotFound", err)
	}

	if _, err := std.ImportData(nil); !errors.Is(err, operation.ErrInvalidInput) {
		t.Errorf("ImportData(nil) error = %v, want ErrInvalidInput", err)
	}
}

func TestProviderClose(t *testing.T) {
	_, std, _, _ := newProviders(t)

	if err := std.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := std.Close(); !errors.Is(err, ErrProviderClosed) {
		t.Errorf("second Close error = %v, want ErrProviderClosed", err)
	}
	if _, err := std.ImportData([]byte("x")); !errors.Is(err, ErrProviderClosed) {
		t.Errorf("ImportData after close error = %v, want ErrProviderClosed", err)
	}
	if _, err := std.Encrypt("a", "b", types.EncryptionOptions{}); !errors.Is(err, ErrProviderClosed) {
		t.Errorf("Encrypt after close error = %v, want ErrProviderClosed", err)
	}
}

func TestProviderNilStorage(t *testing.T) {
	if _, err := NewStandardProvider(nil, nil); !errors.Is(err, ErrNilStorage) {
		t.Errorf("NewStandardProvider(nil) error = %v, want ErrNilStorage", err)
	}
	if _, err := NewPlatformProvider(nil, nil); !errors.Is(err, ErrNilStorage) {
		t.Errorf("NewPlatformProvider(nil) error = %v, want ErrNilStorage", err)
	}
	if _, err := NewCrossPlatformProvider(nil, nil); !errors.Is(err, ErrNilStorage) {
		t.Errorf("NewCrossPlatformProvider(nil) error = %v, want ErrNilStorage", err)
	}
}

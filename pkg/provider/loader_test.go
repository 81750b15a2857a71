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
	"errors"
	"testing"

	"github.com/jeremyhahn/go-cryptoservices/pkg/storage"
	"github.com/jeremyhahn/go-cryptoservices/pkg/types"
)

func newLoader(t *testing.T) *Loader {
	t.Helper()
	s := storage.NewMemoryStorage()
	t.Cleanup(func() { _ = s.Close() })

	l, err := NewLoader(s, nil)
	if err != nil {
		t.Fatalf("NewLoader failed: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestLoaderSelectsRequestedProvider(t *testing.T) {
	l := newLoader(t)
	env := types.Environment{Stage: types.StageDevelopment, HardwareSecurity: true}

	tests := []struct {
		serviceType types.ServiceType
		defaultEnc  types.EncryptionAlgorithm
	}{
		{types.ServiceTypeStandard, types.EncryptionAES256GCM},
		{types.ServiceTypePlatformNative, types.EncryptionAES256GCM},
		{types.ServiceTypeCrossPlatform, types.EncryptionChaCha20Poly1305},
	}

	for _, tt := range tests {
		t.Run(tt.serviceType.String(), func(t *testing.T) {
			p, err := l.Load(tt.serviceType, env)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if got := p.DefaultEncryptionAlgorithm(); got != tt.defaultEnc {
				t.Errorf("default algorithm = %s, want %s", got, tt.defaultEnc)
			}
		})
	}
}

func TestLoaderReturnsSameInstance(t *testing.T) {
	l := newLoader(t)
	env := types.Environment{Stage: types.StageProduction}

	first, err := l.Load(types.ServiceTypeStandard, env)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	second, err := l.Load(types.ServiceTypeStandard, env)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if first != second {
		t.Errorf("Load constructed a second instance for the same service type")
	}
}

func TestLoaderUnknownServiceType(t *testing.T) {
	l := newLoader(t)

	_, err := l.Load("hsm", types.Environment{Stage: types.StageDevelopment})
	if !errors.Is(err, ErrUnknownServiceType) {
		t.Errorf("Load error = %v, want ErrUnknownServiceType", err)
	}
}

func TestLoaderPlatformNeedsHardware(t *testing.T) {
	l := newLoader(t)

	// No fallback: the platform native provider is an error without
	// hardware security, not a silent switch to the standard provider.
	_, err := l.Load(types.ServiceTypePlatformNative, types.Environment{Stage: types.StageProduction})
	if !errors.Is(err, ErrHardwareUnavailable) {
		t.Errorf("Load error = %v, want ErrHardwareUnavailable", err)
	}

	p, err := l.Load(types.ServiceTypePlatformNative, types.Environment{
		Stage:            types.StageProduction,
		HardwareSecurity: true,
	})
	if err != nil {
		t.Fatalf("Load with hardware failed: %v", err)
	}
	if p == nil {
		t.Fatal("Load returned nil provider")
	}
}

func TestLoaderClose(t *testing.T) {
	s := storage.NewMemoryStorage()
	defer s.Close()

	l, err := NewLoader(s, nil)
	if err != nil {
		t.Fatalf("NewLoader failed: %v", err)
	}

	p, err := l.Load(types.ServiceTypeStandard, types.Environment{Stage: types.StageDevelopment})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if err := l.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, err := p.ImportData([]byte("x")); !errors.Is(err, ErrProviderClosed) {
		t.Errorf("provider usable after loader close: %v", err)
	}
}

func TestLoaderNilStorage(t *testing.T) {
	if _, err := NewLoader(nil, nil); !errors.Is(err, ErrNilStorage) {
		t.Errorf("NewLoader(nil) error = %v, want ErrNilStorage", err)
	}
}

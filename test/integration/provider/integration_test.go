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

//go:build integration
// +build integration

package provider

import (
	"bytes"
	"testing"

	"github.com/jeremyhahn/go-cryptoservices/pkg/keymanager"
	"github.com/jeremyhahn/go-cryptoservices/pkg/logging"
	"github.com/jeremyhahn/go-cryptoservices/pkg/provider"
	"github.com/jeremyhahn/go-cryptoservices/pkg/storage/file"
	"github.com/jeremyhahn/go-cryptoservices/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupIntegration wires file-backed storage, a loader, and a key manager
// the same way the CLI does.
func setupIntegration(t *testing.T) (*provider.Loader, *keymanager.KeyManager, *file.FileStorage) {
	t.Helper()

	store, err := file.New(t.TempDir())
	require.NoError(t, err)

	logger := logging.NewLogger(false)

	loader, err := provider.NewLoader(store, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = loader.Close() })

	km, err := keymanager.New(store, logger, nil)
	require.NoError(t, err)

	return loader, km, store
}

func TestStandardWorkflowIntegration(t *testing.T) {
	loader, km, _ := setupIntegration(t)

	p, err := loader.Load(types.ServiceTypeStandard, types.DefaultEnvironment())
	require.NoError(t, err)

	_, err = km.GenerateKey("payments", 256)
	require.NoError(t, err)

	plaintext := []byte("integration plaintext for the standard provider")
	dataID, err := p.ImportData(plaintext)
	require.NoError(t, err)

	ctID, err := p.Encrypt(dataID, "keys/payments", types.EncryptionOptions{
		Algorithm: types.EncryptionAES256GCM,
	})
	require.NoError(t, err)
	assert.NotEqual(t, dataID, ctID)

	blob, err := p.ExportData(ctID)
	require.NoError(t, err)
	assert.False(t, bytes.Contains(blob, plaintext))

	ptID, err := p.Decrypt(ctID, "keys/payments", types.DecryptionOptions{})
	require.NoError(t, err)

	recovered, err := p.ExportData(ptID)
	require.NoError(t, err)
	assert.Equal(t, plaintext, recovered)

	hashID, err := p.Hash(dataID, types.HashingOptions{Algorithm: types.HashSHA384})
	require.NoError(t, err)

	match, err := p.VerifyHash(dataID, hashID, types.HashingOptions{Algorithm: types.HashSHA384})
	require.NoError(t, err)
	assert.True(t, match)
}

func TestKeyRotationWorkflowIntegration(t *testing.T) {
	loader, km, store := setupIntegration(t)

	p, err := loader.Load(types.ServiceTypeStandard, types.DefaultEnvironment())
	require.NoError(t, err)

	_, err = km.GenerateKey("records", 256)
	require.NoError(t, err)

	plaintext := []byte("ciphertext that must survive key rotation")
	dataID, err := p.ImportData(plaintext)
	require.NoError(t, err)

	ctID, err := p.Encrypt(dataID, "keys/records", types.EncryptionOptions{
		Algorithm: types.EncryptionAES256GCM,
	})
	require.NoError(t, err)

	blob, err := store.Retrieve(ctID)
	require.NoError(t, err)

	result, err := km.RotateKey("records", blob)
	require.NoError(t, err)
	require.NotNil(t, result.ReencryptedData)

	// Commit the re-encrypted blob in place and decrypt via the provider,
	// which now resolves the rotated key under the same identifier.
	require.NoError(t, store.Store(result.ReencryptedData, ctID))

	ptID, err := p.Decrypt(ctID, "keys/records", types.DecryptionOptions{})
	require.NoError(t, err)

	recovered, err := p.ExportData(ptID)
	require.NoError(t, err)
	assert.Equal(t, plaintext, recovered)
}

func TestCrossPlatformWorkflowIntegration(t *testing.T) {
	loader, km, _ := setupIntegration(t)

	p, err := loader.Load(types.ServiceTypeCrossPlatform, types.DefaultEnvironment())
	require.NoError(t, err)
	assert.Equal(t, types.EncryptionChaCha20Poly1305, p.DefaultEncryptionAlgorithm())

	_, err = km.GenerateKey("portable", 256)
	require.NoError(t, err)

	plaintext := []byte("cross-platform round trip")
	dataID, err := p.ImportData(plaintext)
	require.NoError(t, err)

	// Default algorithm, explicit AAD binding.
	aad := []byte("tenant-7")
	ctID, err := p.Encrypt(dataID, "keys/portable", types.EncryptionOptions{AAD: aad})
	require.NoError(t, err)

	ptID, err := p.Decrypt(ctID, "keys/portable", types.DecryptionOptions{AAD: aad})
	require.NoError(t, err)

	recovered, err := p.ExportData(ptID)
	require.NoError(t, err)
	assert.Equal(t, plaintext, recovered)

	hashID, err := p.Hash(dataID, types.HashingOptions{Algorithm: types.HashBLAKE3})
	require.NoError(t, err)

	match, err := p.VerifyHash(dataID, hashID, types.HashingOptions{Algorithm: types.HashBLAKE3})
	require.NoError(t, err)
	assert.True(t, match)
}

func TestPersistenceAcrossReopenIntegration(t *testing.T) {
	dir := t.TempDir()

	store, err := file.New(dir)
	require.NoError(t, err)

	logger := logging.NewLogger(false)

	loader, err := provider.NewLoader(store, logger)
	require.NoError(t, err)

	km, err := keymanager.New(store, logger, nil)
	require.NoError(t, err)

	p, err := loader.Load(types.ServiceTypeStandard, types.DefaultEnvironment())
	require.NoError(t, err)

	_, err = km.GenerateKey("durable", 256)
	require.NoError(t, err)

	plaintext := []byte("state persisted across process restarts")
	dataID, err := p.ImportData(plaintext)
	require.NoError(t, err)

	ctID, err := p.Encrypt(dataID, "keys/durable", types.EncryptionOptions{
		Algorithm: types.EncryptionAES256CBC,
	})
	require.NoError(t, err)

	require.NoError(t, loader.Close())
	require.NoError(t, store.Close())

	// Reopen the same root directory with a fresh stack.
	store2, err := file.New(dir)
	require.NoError(t, err)

	loader2, err := provider.NewLoader(store2, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = loader2.Close() })

	p2, err := loader2.Load(types.ServiceTypeStandard, types.DefaultEnvironment())
	require.NoError(t, err)

	ptID, err := p2.Decrypt(ctID, "keys/durable", types.DecryptionOptions{
		Algorithm: types.EncryptionAES256CBC,
	})
	require.NoError(t, err)

	recovered, err := p2.ExportData(ptID)
	require.NoError(t, err)
	assert.Equal(t, plaintext, recovered)
}

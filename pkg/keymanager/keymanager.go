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

// Package keymanager owns the key lifecycle: storage, retrieval, rotation,
// and deletion. A single mutex serialises every operation so concurrent
// callers always observe a key either fully rotated or not rotated at all.
package keymanager

import (
	"crypto/rand"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/jeremyhahn/go-cryptoservices/pkg/logging"
	"github.com/jeremyhahn/go-cryptoservices/pkg/metrics"
	"github.com/jeremyhahn/go-cryptoservices/pkg/operation"
	"github.com/jeremyhahn/go-cryptoservices/pkg/storage"
	"github.com/jeremyhahn/go-cryptoservices/pkg/types"
)

// keyPrefix namespaces key material apart from data objects sharing the
// same secure storage.
const keyPrefix = "keys/"

const maxIdentifierLength = 255

// identifierRegex whitelists key identifiers: alphanumeric, hyphens,
// underscores, and dots. Path separators and control characters never reach
// the storage layer.
var identifierRegex = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// RotationResult carries the outcome of a key rotation.
type RotationResult struct {
	// NewKey is the freshly minted key material now stored under the
	// rotated identifier.
	NewKey []byte

	// ReencryptedData is the input ciphertext re-encrypted under the new
	// key, nil when rotation was invoked without data.
	ReencryptedData []byte
}

// KeyManager serialises all key lifecycle operations behind one mutex.
type KeyManager struct {
	storage   storage.SecureStorage
	logger    logging.Logger
	generator KeyGenerator
	mu        sync.Mutex
}

// New creates a key manager bound to the given storage. A nil logger
// selects the default logger; a nil generator selects the CSPRNG-backed
// RandomKeyGenerator.
func New(store storage.SecureStorage, logger logging.Logger, generator KeyGenerator) (*KeyManager, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: nil secure storage", ErrInvalidInput)
	}
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	if generator == nil {
		generator = RandomKeyGenerator{}
	}
	return &KeyManager{
		storage:   store,
		logger:    logger,
		generator: generator,
	}, nil
}

// StoreKey places key material under the given identifier, overwriting any
// previous key.
func (m *KeyManager) StoreKey(key []byte, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path, err := m.keyPath(id)
	if err != nil {
		return err
	}
	if len(key) == 0 {
		return fmt.Errorf("%w: empty key material", ErrInvalidInput)
	}

	if err := m.storage.Store(key, path); err != nil {
		return err
	}
	m.logInfo("key stored", id)
	return nil
}

// RetrieveKey returns the key material stored under the given identifier.
func (m *KeyManager) RetrieveKey(id string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.retrieveLocked(id)
}

// GenerateKey mints bits of fresh key material via the injected generator
// and stores it under the given identifier.
func (m *KeyManager) GenerateKey(id string, bits int) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	path, err := m.keyPath(id)
	if err != nil {
		return nil, err
	}
	if bits <= 0 || bits%8 != 0 {
		return nil, fmt.Errorf("%w: key length %d bits is not a positive multiple of 8", ErrInvalidInput, bits)
	}

	key, err := m.generator.GenerateKey(bits / 8)
	if err != nil {
		return nil, err
	}
	if err := m.storage.Store(key, path); err != nil {
		return nil, err
	}
	m.logInfo("key generated", id)
	return key, nil
}

// RotateKey replaces the key under id with fresh material of the same
// length. When dataToReencrypt is non-nil it must be a ciphertext envelope
// sealed under the old key; it is decrypted with the old key and
// re-encrypted under the new one before the new key is committed, so a
// failed rotation leaves the old key and ciphertext untouched.
func (m *KeyManager) RotateKey(id string, dataToReencrypt []byte) (*RotationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	path, err := m.keyPath(id)
	if err != nil {
		return nil, err
	}

	oldKey, err := m.retrieveLocked(id)
	if err != nil {
		return nil, err
	}

	newKey, err := m.generator.GenerateKey(len(oldKey))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRotationFailed, err)
	}

	var reencrypted []byte
	if dataToReencrypt != nil {
		reencrypted, err = reencrypt(dataToReencrypt, oldKey, newKey)
		if err != nil {
			return nil, err
		}
	}

	if err := m.storage.Store(newKey, path); err != nil {
		return nil, err
	}

	count := 0
	if reencrypted != nil {
		count = 1
	}
	metrics.RecordRotation(count)
	m.logInfo("key rotated", id)

	return &RotationResult{
		NewKey:          newKey,
		ReencryptedData: reencrypted,
	}, nil
}

// DeleteKey removes the key stored under the given identifier.
func (m *KeyManager) DeleteKey(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path, err := m.keyPath(id)
	if err != nil {
		return err
	}

	if err := m.storage.Delete(path); err != nil {
		if errors.Is(err, storage.ErrDataNotFound) {
			return fmt.Errorf("%w: %q", ErrKeyNotFound, id)
		}
		return err
	}
	m.logInfo("key deleted", id)
	return nil
}

// ListKeyIdentifiers returns the identifiers of all managed keys, sorted.
// Derivation parameter records stored alongside password-derived keys are
// excluded.
func (m *KeyManager) ListKeyIdentifiers() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	all, err := m.storage.List()
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(all))
	for _, id := range all {
		if !strings.HasPrefix(id, keyPrefix) {
			continue
		}
		name := strings.TrimPrefix(id, keyPrefix)
		if strings.HasSuffix(name, operation.KDFRecordSuffix) {
			continue
		}
		ids = append(ids, name)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *KeyManager) retrieveLocked(id string) ([]byte, error) {
	path, err := m.keyPath(id)
	if err != nil {
		return nil, err
	}

	key, err := m.storage.Retrieve(path)
	if err != nil {
		if errors.Is(err, storage.ErrDataNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, id)
		}
		return nil, err
	}
	return key, nil
}

// keyPath validates an identifier and maps it into the key namespace.
func (m *KeyManager) keyPath(id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("%w: empty key identifier", ErrInvalidInput)
	}
	if len(id) > maxIdentifierLength {
		return "", fmt.Errorf("%w: key identifier too long (max %d characters)", ErrInvalidInput, maxIdentifierLength)
	}
	if strings.Contains(id, "..") {
		return "", fmt.Errorf("%w: key identifier contains path traversal", ErrInvalidInput)
	}
	if !identifierRegex.MatchString(id) {
		return "", fmt.Errorf("%w: key identifier must contain only alphanumeric, hyphens, underscores, and dots", ErrInvalidInput)
	}
	return keyPrefix + id, nil
}

func (m *KeyManager) logInfo(msg, id string) {
	m.logger.Info(msg, logging.Context{
		Domain:    "keymanager",
		Operation: msg,
		Metadata: []logging.Entry{
			logging.PrivateEntry("key_id", id),
		},
	})
}

// reencrypt opens a ciphertext envelope with the old key and seals the
// plaintext under the new key with a fresh nonce, keeping the algorithm.
func reencrypt(blob, oldKey, newKey []byte) ([]byte, error) {
	env, err := types.UnmarshalEnvelope(blob)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRotationFailed, err)
	}

	plaintext, err := operation.Open(env, oldKey, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRotationFailed, err)
	}

	nonce := make([]byte, env.Algorithm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRotationFailed, err)
	}

	rotated, err := operation.Seal(env.Algorithm, newKey, nonce, plaintext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRotationFailed, err)
	}
	return rotated.Marshal()
}

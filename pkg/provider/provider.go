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

// Package provider implements the algorithm providers that sit between
// callers and the crypto operation commands. Each provider enforces a fixed
// capability matrix before dispatching: an algorithm outside the matrix is
// rejected, never silently substituted.
package provider

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jeremyhahn/go-cryptoservices/pkg/logging"
	"github.com/jeremyhahn/go-cryptoservices/pkg/metrics"
	"github.com/jeremyhahn/go-cryptoservices/pkg/operation"
	"github.com/jeremyhahn/go-cryptoservices/pkg/storage"
	"github.com/jeremyhahn/go-cryptoservices/pkg/types"
)

// Provider is the caller-facing surface of one algorithm provider. All data
// inputs and outputs are secure storage identifiers; raw bytes cross the
// boundary only through ImportData and ExportData.
type Provider interface {
	// Encrypt encrypts the data stored under dataID with the key stored
	// under keyID and returns the identifier of the stored ciphertext.
	Encrypt(dataID, keyID string, opts types.EncryptionOptions) (string, error)

	// Decrypt decrypts the ciphertext stored under dataID with the key
	// stored under keyID and returns the identifier of the stored plaintext.
	Decrypt(dataID, keyID string, opts types.DecryptionOptions) (string, error)

	// Hash digests the data stored under dataID and returns the identifier
	// of the stored digest.
	Hash(dataID string, opts types.HashingOptions) (string, error)

	// VerifyHash recomputes the digest of the data stored under dataID and
	// compares it against the digest stored under hashID. A mismatch is a
	// false result, not an error.
	VerifyHash(dataID, hashID string, opts types.HashingOptions) (bool, error)

	// GenerateKey creates new key material, random or password-derived, and
	// returns the identifier it was stored under.
	GenerateKey(opts types.KeyGenerationOptions) (string, error)

	// DeriveKey deterministically derives key material from a password and
	// salt and returns the identifier it was stored under.
	DeriveKey(opts types.KeyDerivationOptions) (string, error)

	// ImportData places raw bytes into secure storage under a fresh
	// identifier.
	ImportData(raw []byte) (string, error)

	// ExportData returns the raw bytes stored under id.
	ExportData(id string) ([]byte, error)

	// StoreData places raw bytes into secure storage under a caller-chosen
	// identifier, overwriting any previous value.
	StoreData(raw []byte, id string) error

	// RetrieveData returns the raw bytes stored under id.
	RetrieveData(id string) ([]byte, error)

	// DeleteData removes the object stored under id.
	DeleteData(id string) error

	// Capabilities reports the provider's fixed capability matrix.
	Capabilities() types.Capabilities

	// DefaultEncryptionAlgorithm returns the algorithm used when
	// EncryptionOptions leaves the algorithm unset.
	DefaultEncryptionAlgorithm() types.EncryptionAlgorithm

	// Close releases the provider. Further calls fail with ErrProviderClosed.
	Close() error
}

// service is the shared engine behind all three providers. The concrete
// provider types pin the service type, capability matrix, and defaults; the
// engine enforces them and delegates to the operation commands.
type service struct {
	serviceType types.ServiceType
	caps        types.Capabilities
	defaultEnc  types.EncryptionAlgorithm
	defaultHash types.HashAlgorithm
	defaultKDF  types.KeyDerivationFunction

	storage storage.SecureStorage
	logger  logging.Logger

	encrypt     *operation.Encrypt
	decrypt     *operation.Decrypt
	hash        *operation.Hash
	verifyHash  *operation.VerifyHash
	generateKey *operation.GenerateKey
	deriveKey   *operation.DeriveKey

	mu     sync.RWMutex
	closed bool
}

func newService(
	serviceType types.ServiceType,
	caps types.Capabilities,
	defaultEnc types.EncryptionAlgorithm,
	defaultHash types.HashAlgorithm,
	defaultKDF types.KeyDerivationFunction,
	store storage.SecureStorage,
	logger logging.Logger,
) *service {
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	return &service{
		serviceType: serviceType,
		caps:        caps,
		defaultEnc:  defaultEnc,
		defaultHash: defaultHash,
		defaultKDF:  defaultKDF,
		storage:     store,
		logger:      logger,
		encrypt:     operation.NewEncrypt(store, logger),
		decrypt:     operation.NewDecrypt(store, logger),
		hash:        operation.NewHash(store, logger),
		verifyHash:  operation.NewVerifyHash(store, logger),
		generateKey: operation.NewGenerateKey(store, logger),
		deriveKey:   operation.NewDeriveKey(store, logger),
	}
}

// guard takes a read lock for the duration of an operation and rejects use
// after Close.
func (s *service) guard() (func(), error) {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return nil, ErrProviderClosed
	}
	return s.mu.RUnlock, nil
}

// observe feeds the operation result into the Prometheus counters.
func (s *service) observe(op string, start time.Time, err error) {
	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	}
	metrics.RecordOperation(op, s.serviceType.String(), status, time.Since(start).Seconds())
}

func (s *service) Encrypt(dataID, keyID string, opts types.EncryptionOptions) (id string, err error) {
	release, err := s.guard()
	if err != nil {
		return "", err
	}
	defer release()
	start := time.Now()
	defer func() { s.observe(metrics.OpEncrypt, start, err) }()

	if opts.Algorithm == "" {
		opts.Algorithm = s.defaultEnc
	}
	if !s.caps.SupportsEncryption(opts.Algorithm) {
		if !opts.Algorithm.Valid() {
			return "", fmt.Errorf("%w: %q", operation.ErrInvalidAlgorithm, opts.Algorithm)
		}
		return "", fmt.Errorf("%w: %s does not support %s",
			operation.ErrUnsupportedOperation, s.serviceType, opts.Algorithm)
	}
	return s.encrypt.Execute(dataID, keyID, opts)
}

func (s *service) Decrypt(dataID, keyID string, opts types.DecryptionOptions) (id string, err error) {
	release, err := s.guard()
	if err != nil {
		return "", err
	}
	defer release()
	start := time.Now()
	defer func() { s.observe(metrics.OpDecrypt, start, err) }()

	if opts.Algorithm != "" && !s.caps.SupportsEncryption(opts.Algorithm) {
		if !opts.Algorithm.Valid() {
			return "", fmt.Errorf("%w: %q", operation.ErrInvalidAlgorithm, opts.Algorithm)
		}
		return "", fmt.Errorf("%w: %s does not support %s",
			operation.ErrUnsupportedOperation, s.serviceType, opts.Algorithm)
	}

	// The envelope names the algorithm that produced the ciphertext. A
	// provider must not open ciphertext produced by an algorithm outside
	// its matrix even when the caller left the algorithm unset.
	if opts.Algorithm == "" {
		blob, rerr := s.storage.Retrieve(dataID)
		if rerr != nil {
			err = rerr
			return "", err
		}
		env, uerr := types.UnmarshalEnvelope(blob)
		if uerr != nil {
			err = fmt.Errorf("%w: %v", operation.ErrInvalidDataFormat, uerr)
			return "", err
		}
		if !s.caps.SupportsEncryption(env.Algorithm) {
			err = fmt.Errorf("%w: %s does not support %s",
				operation.ErrUnsupportedOperation, s.serviceType, env.Algorithm)
			return "", err
		}
	}

	return s.decrypt.Execute(dataID, keyID, opts)
}

func (s *service) Hash(dataID string, opts types.HashingOptions) (id string, err error) {
	release, err := s.guard()
	if err != nil {
		return "", err
	}
	defer release()
	start := time.Now()
	defer func() { s.observe(metrics.OpHash, start, err) }()

	if opts.Algorithm == "" {
		opts.Algorithm = s.defaultHash
	}
	if !s.caps.SupportsHash(opts.Algorithm) {
		if !opts.Algorithm.Valid() {
			return "", fmt.Errorf("%w: %q", operation.ErrInvalidAlgorithm, opts.Algorithm)
		}
		return "", fmt.Errorf("%w: %s does not support %s",
			operation.ErrUnsupportedOperation, s.serviceType, opts.Algorithm)
	}
	return s.hash.Execute(dataID, opts)
}

func (s *service) VerifyHash(dataID, hashID string, opts types.HashingOptions) (match bool, err error) {
	release, err := s.guard()
	if err != nil {
		return false, err
	}
	defer release()
	start := time.Now()
	defer func() { s.observe(metrics.OpVerifyHash, start, err) }()

	if opts.Algorithm == "" {
		opts.Algorithm = s.defaultHash
	}
	if !s.caps.SupportsHash(opts.Algorithm) {
		if !opts.Algorithm.Valid() {
			return false, fmt.Errorf("%w: %q", operation.ErrInvalidAlgorithm, opts.Algorithm)
		}
		return false, fmt.Errorf("%w: %s does not support %s",
			operation.ErrUnsupportedOperation, s.serviceType, opts.Algorithm)
	}
	return s.verifyHash.Execute(dataID, hashID, opts)
}

func (s *service) GenerateKey(opts types.KeyGenerationOptions) (id string, err error) {
	release, err := s.guard()
	if err != nil {
		return "", err
	}
	defer release()
	start := time.Now()
	defer func() { s.observe(metrics.OpGenerateKey, start, err) }()

	if opts.Password != "" {
		if opts.KDF == "" {
			opts.KDF = s.defaultKDF
		}
		if !s.caps.SupportsKDF(opts.KDF) {
			if !opts.KDF.Valid() {
				return "", fmt.Errorf("%w: %q", operation.ErrInvalidAlgorithm, opts.KDF)
			}
			return "", fmt.Errorf("%w: %s does not support %s",
				operation.ErrUnsupportedOperation, s.serviceType, opts.KDF)
		}
	}
	return s.generateKey.Execute(opts)
}

func (s *service) DeriveKey(opts types.KeyDerivationOptions) (id string, err error) {
	release, err := s.guard()
	if err != nil {
		return "", err
	}
	defer release()
	start := time.Now()
	defer func() { s.observe(metrics.OpDeriveKey, start, err) }()

	if opts.KDF == "" {
		opts.KDF = s.defaultKDF
	}
	if !s.caps.SupportsKDF(opts.KDF) {
		if !opts.KDF.Valid() {
			return "", fmt.Errorf("%w: %q", operation.ErrInvalidAlgorithm, opts.KDF)
		}
		return "", fmt.Errorf("%w: %s does not support %s",
			operation.ErrUnsupportedOperation, s.serviceType, opts.KDF)
	}
	return s.deriveKey.Execute(opts)
}

func (s *service) ImportData(raw []byte) (id string, err error) {
	release, err := s.guard()
	if err != nil {
		return "", err
	}
	defer release()
	start := time.Now()
	defer func() { s.observe(metrics.OpImport, start, err) }()

	if raw == nil {
		return "", fmt.Errorf("%w: nil data", operation.ErrInvalidInput)
	}
	id = uuid.NewString()
	if err = s.storage.Store(raw, id); err != nil {
		return "", err
	}
	return id, nil
}

func (s *service) ExportData(id string) (raw []byte, err error) {
	release, err := s.guard()
	if err != nil {
		return nil, err
	}
	defer release()
	start := time.Now()
	defer func() { s.observe(metrics.OpExport, start, err) }()

	return s.storage.Retrieve(id)
}

func (s *service) StoreData(raw []byte, id string) (err error) {
	release, err := s.guard()
	if err != nil {
		return err
	}
	defer release()
	start := time.Now()
	defer func() { s.observe(metrics.OpStore, start, err) }()

	return s.storage.Store(raw, id)
}

func (s *service) RetrieveData(id string) (raw []byte, err error) {
	release, err := s.guard()
	if err != nil {
		return nil, err
	}
	defer release()
	start := time.Now()
	defer func() { s.observe(metrics.OpRetrieve, start, err) }()

	return s.storage.Retrieve(id)
}

func (s *service) DeleteData(id string) (err error) {
	release, err := s.guard()
	if err != nil {
		return err
	}
	defer release()
	start := time.Now()
	defer func() { s.observe(metrics.OpDelete, start, err) }()

	return s.storage.Delete(id)
}

func (s *service) Capabilities() types.Capabilities {
	return s.caps
}

func (s *service) DefaultEncryptionAlgorithm() types.EncryptionAlgorithm {
	return s.defaultEnc
}

// Close marks the provider closed. The underlying storage is owned by the
// caller and is not closed here.
func (s *service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrProviderClosed
	}
	s.closed = true
	return nil
}

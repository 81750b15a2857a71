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

// Package types defines the shared value types of the cryptographic services
// layer: algorithm identifiers, operation options, provider selectors, the
// capability matrix, and the ciphertext envelope.
package types

import "strings"

// ServiceType selects which algorithm provider a process uses.
// Selection is deliberate and explicit; there is no fallback between
// providers.
type ServiceType string

const (
	// ServiceTypeStandard selects the standard provider
	// (AES-CBC, AES-GCM, SHA-2, PBKDF2).
	ServiceTypeStandard ServiceType = "standard"

	// ServiceTypePlatformNative selects the platform-native provider
	// (AES-GCM only, SHA-2, PBKDF2).
	ServiceTypePlatformNative ServiceType = "platformNative"

	// ServiceTypeCrossPlatform selects the cross-platform provider
	// (ChaCha20-Poly1305, SHA-2 + BLAKE3, PBKDF2 + Argon2id).
	ServiceTypeCrossPlatform ServiceType = "crossPlatform"
)

// String returns the string representation.
func (s ServiceType) String() string {
	return string(s)
}

// Valid reports whether the service type is one of the known selectors.
func (s ServiceType) Valid() bool {
	switch s {
	case ServiceTypeStandard, ServiceTypePlatformNative, ServiceTypeCrossPlatform:
		return true
	}
	return false
}

// ParseServiceType parses a case-insensitive service type name.
// Returns an empty (invalid) service type for unknown names.
func ParseServiceType(s string) ServiceType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "standard":
		return ServiceTypeStandard
	case "platformnative", "platform-native", "platform":
		return ServiceTypePlatformNative
	case "crossplatform", "cross-platform":
		return ServiceTypeCrossPlatform
	}
	return ""
}

// DeploymentStage identifies the deployment stage of the running process.
type DeploymentStage string

const (
	StageDevelopment DeploymentStage = "development"
	StageStaging     DeploymentStage = "staging"
	StageProduction  DeploymentStage = "production"
)

// String returns the string representation.
func (d DeploymentStage) String() string {
	return string(d)
}

// Valid reports whether the stage is one of the known stages.
func (d DeploymentStage) Valid() bool {
	switch d {
	case StageDevelopment, StageStaging, StageProduction:
		return true
	}
	return false
}

// Environment describes the process environment the provider loader uses
// when constructing a provider.
type Environment struct {
	// Stage is the deployment stage (development, staging, production).
	Stage DeploymentStage

	// HardwareSecurity indicates a hardware security module is available.
	HardwareSecurity bool

	// EnhancedLogging enables verbose (debug-level) logging.
	EnhancedLogging bool
}

// DefaultEnvironment returns a development environment with no hardware
// security and standard logging.
func DefaultEnvironment() Environment {
	return Environment{Stage: StageDevelopment}
}

// Capabilities describes which algorithms, modes, and key derivation
// functions a provider supports. A provider asked to perform an operation
// outside its capabilities must fail, never substitute an algorithm.
type Capabilities struct {
	AESCBC           bool
	AESGCM           bool
	ChaCha20Poly1305 bool
	SHA2             bool
	BLAKE3           bool
	PBKDF2           bool
	Argon2id         bool
}

// SupportsEncryption reports whether the given encryption algorithm is
// inside the capability matrix.
func (c Capabilities) SupportsEncryption(a EncryptionAlgorithm) bool {
	switch a {
	case EncryptionAES256CBC:
		return c.AESCBC
	case EncryptionAES256GCM:
		return c.AESGCM
	case EncryptionChaCha20Poly1305:
		return c.ChaCha20Poly1305
	}
	return false
}

// SupportsHash reports whether the given hash algorithm is inside the
// capability matrix.
func (c Capabilities) SupportsHash(h HashAlgorithm) bool {
	switch h {
	case HashSHA256, HashSHA384, HashSHA512:
		return c.SHA2
	case HashBLAKE3:
		return c.BLAKE3
	}
	return false
}

// SupportsKDF reports whether the given key derivation function is inside
// the capability matrix.
func (c Capabilities) SupportsKDF(k KeyDerivationFunction) bool {
	switch k {
	case KDFPBKDF2:
		return c.PBKDF2
	case KDFArgon2id:
		return c.Argon2id
	}
	return false
}

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

// Package operation implements the per-operation command objects of the
// crypto services layer: Encrypt, Decrypt, Hash, VerifyHash, GenerateKey,
// and DeriveKey. Each command validates its inputs, retrieves required
// blobs from secure storage, executes one algorithm step, stores the
// result under a freshly minted identifier, and returns that identifier.
//
// Commands are stateless between invocations and never retry. All data
// flows by storage identifier; raw bytes never cross the command boundary
// except at the provider's import/export edges.
package operation

import (
	"crypto/rand"
	"fmt"

	"github.com/google/uuid"
	"github.com/jeremyhahn/go-cryptoservices/pkg/logging"
	"github.com/jeremyhahn/go-cryptoservices/pkg/storage"
)

// logDomain is the logging domain for all commands.
const logDomain = "crypto"

// command holds the collaborators shared by every operation command.
type command struct {
	storage storage.SecureStorage
	logger  logging.Logger
}

func newCommand(store storage.SecureStorage, logger logging.Logger) command {
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	return command{storage: store, logger: logger}
}

// newOutputID mints a fresh unique identifier for an operation's output.
// An operation never reuses an input identifier for its output.
func newOutputID() string {
	return uuid.NewString()
}

// randomBytes returns n cryptographically random bytes.
func randomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to read random source: %w", err)
	}
	return buf, nil
}

// validateIdentifiers fails fast on empty identifiers before any I/O.
func validateIdentifiers(ids ...string) error {
	for _, id := range ids {
		if id == "" {
			return fmt.Errorf("%w: empty identifier", ErrInvalidInput)
		}
	}
	return nil
}

// logSuccess emits the observational success entry shared by commands.
func (c command) logSuccess(op, correlationID string, metadata ...logging.Entry) {
	c.logger.Info(op+" completed", logging.Context{
		Domain:        logDomain,
		Operation:     op,
		CorrelationID: correlationID,
		Metadata:      metadata,
	})
}

// logFailure emits the observational failure entry shared by commands.
// Error reasons are classified private: they may reference identifiers.
func (c command) logFailure(op, correlationID string, err error) {
	c.logger.Error(op+" failed", logging.Context{
		Domain:        logDomain,
		Operation:     op,
		CorrelationID: correlationID,
		Metadata: []logging.Entry{
			logging.PrivateEntry("reason", err.Error()),
		},
	})
}

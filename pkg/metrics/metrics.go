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

// Package metrics provides Prometheus instrumentation for cryptographic
// service operations. It exposes operation counters, latency histograms,
// and error counters labeled by service type.
package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// Namespace is the Prometheus namespace for all crypto service metrics
	Namespace = "cryptoservices"

	// Label names
	LabelOperation = "operation"
	LabelService   = "service"
	LabelStatus    = "status"
	LabelErrorType = "error_type"

	// Status values
	StatusSuccess = "success"
	StatusError   = "error"

	// Operation names
	OpEncrypt     = "encrypt"
	OpDecrypt     = "decrypt"
	OpHash        = "hash"
	OpVerifyHash  = "verify_hash"
	OpGenerateKey = "generate_key"
	OpDeriveKey   = "derive_key"
	OpImport      = "import"
	OpExport      = "export"
	OpStore       = "store"
	OpRetrieve    = "retrieve"
	OpDelete      = "delete"
	OpRotate      = "rotate"
)

var (
	// OperationsTotal tracks the total number of crypto operations by type,
	// service, and status. Use RecordOperation to increment this counter.
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "operations_total",
			Help:      "Total number of crypto operations by type, service, and status",
		},
		[]string{LabelOperation, LabelService, LabelStatus},
	)

	// OperationDuration tracks the duration of crypto operations in seconds.
	// Buckets are optimized for typical cryptographic operation latencies.
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of crypto operations in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{LabelOperation, LabelService},
	)

	// ErrorsTotal tracks the total number of errors by operation, service,
	// and error type. Error types should be specific (e.g. "key_not_found",
	// "invalid_algorithm", "decryption_failed").
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "errors_total",
			Help:      "Total number of errors by operation, service, and error type",
		},
		[]string{LabelOperation, LabelService, LabelErrorType},
	)

	// StoredObjectsTotal tracks the number of objects held by each service's
	// secure storage. Updated by storage-facing operations.
	StoredObjectsTotal = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "stored_objects_total",
			Help:      "Number of objects held in secure storage per service",
		},
		[]string{LabelService},
	)

	// KeyRotationsTotal tracks completed key rotations.
	KeyRotationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "key_rotations_total",
			Help:      "Total number of completed key rotations",
		},
	)

	// ReencryptedObjectsTotal counts data objects re-encrypted during key
	// rotations.
	ReencryptedObjectsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "reencrypted_objects_total",
			Help:      "Total number of data objects re-encrypted during key rotations",
		},
	)

	// enabled tracks whether metrics collection is enabled
	enabled atomic.Bool
)

func init() {
	// Metrics are enabled by default
	enabled.Store(true)
}

// RecordOperation records a crypto operation with its duration and status.
//
// Parameters:
//   - operation: The operation name (use Op* constants)
//   - service: The service type identifier (e.g. "standard", "crossPlatform")
//   - status: The operation status (use Status* constants)
//   - duration: The operation duration in seconds
func RecordOperation(operation, service, status string, duration float64) {
	if !enabled.Load() {
		return
	}
	OperationsTotal.WithLabelValues(operation, service, status).Inc()
	OperationDuration.WithLabelValues(operation, service).Observe(duration)
}

// RecordError records an error event with context about where it occurred.
func RecordError(operation, service, errorType string) {
	if !enabled.Load() {
		return
	}
	ErrorsTotal.WithLabelValues(operation, service, errorType).Inc()
}

// SetStoredObjects sets the stored object count for a service.
func SetStoredObjects(service string, count float64) {
	if !enabled.Load() {
		return
	}
	StoredObjectsTotal.WithLabelValues(service).Set(count)
}

// RecordRotation records a completed key rotation and the number of data
// objects it re-encrypted.
func RecordRotation(reencrypted int) {
	if !enabled.Load() {
		return
	}
	KeyRotationsTotal.Inc()
	ReencryptedObjectsTotal.Add(float64(reencrypted))
}

// Enable enables metrics collection.
func Enable() {
	enabled.Store(true)
}

// Disable disables metrics collection.
// Useful for testing or when metrics are not desired.
func Disable() {
	enabled.Store(false)
}

// IsEnabled returns whether metrics collection is currently enabled.
func IsEnabled() bool {
	return enabled.Load()
}

// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package database

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tomtom215/headlines/internal/logging"
)

var (
	// ErrUnavailable is returned when the datastore cannot be reached or a
	// query fails.
	ErrUnavailable = errors.New("datastore unavailable")

	// ErrWriteFailed is returned when a write or its transaction fails.
	ErrWriteFailed = errors.New("datastore write failed")

	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")
)

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUnavailable, op, err)
}

func writeFailed(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrWriteFailed, op, err)
}

// isTransactionConflict reports DuckDB optimistic concurrency conflicts,
// which are safe to retry.
func isTransactionConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Transaction conflict") ||
		strings.Contains(msg, "Conflict on update")
}

// closeQuietly closes a resource on an error path where the Close error is
// not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}

func logRollback(rbErr, original error) {
	logging.Error().Err(rbErr).AnErr("original_error", original).Msg("Transaction rollback failed")
}

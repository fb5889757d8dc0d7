// Package common defines shared sentinel errors and small utility helpers
// used across the auth vault. Callers should use errors.Is to match the
// sentinel values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Storage-level errors. Anything that fails while reading or writing
	// the credential store wraps this value so callers can treat every
	// cause uniformly as "storage unavailable".
	ErrStorage = errors.New("storage unavailable")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")
)

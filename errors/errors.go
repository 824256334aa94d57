// Package errors provides an API for errors across the application.
package errors

import (
	"errors"
	"fmt"
)

// RequestError carries an HTTP status code alongside the underlying error.
type RequestError struct {
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	return e.Err.Error()
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

var (
	// ErrWalletExists is returned when a user already has a wallet,
	// active or deactivated. Wallets are never silently overwritten.
	ErrWalletExists = errors.New("wallet already exists")

	// ErrWalletNotFound is returned when no active wallet exists for a user.
	ErrWalletNotFound = errors.New("wallet not found")

	// ErrInvalidPhrase is returned when a recovery phrase fails BIP-39
	// validation (word count, wordlist or checksum).
	ErrInvalidPhrase = errors.New("invalid recovery phrase")

	// ErrDecryption is returned when a stored secret cannot be decrypted
	// under the process encryption key. Not retryable: the key does not
	// match or the ciphertext is corrupt.
	ErrDecryption = errors.New("secret decryption failed")
)

// InvalidInputError is returned for caller mistakes that are rejected
// before any network I/O: bad amounts, malformed addresses, unsupported
// chain identifiers.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return e.Reason
}

func InvalidInputf(format string, a ...interface{}) *InvalidInputError {
	return &InvalidInputError{Reason: fmt.Sprintf(format, a...)}
}

func IsInvalidInput(err error) bool {
	var e *InvalidInputError
	return errors.As(err, &e)
}

// TransactionError is returned when a chain rejected the transfer.
// Detail holds the chain-provided reason when available and must never
// contain key material.
type TransactionError struct {
	Chain  string
	Detail string
	Err    error
}

func (e *TransactionError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: transaction rejected: %s", e.Chain, e.Detail)
	}
	return fmt.Sprintf("%s: transaction rejected", e.Chain)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}

// NetworkError is returned when a chain endpoint could not be reached
// or did not answer in time. Transient and safe to retry; must not be
// conflated with a definite transaction failure.
type NetworkError struct {
	Chain string
	Err   error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network unreachable: %v", e.Chain, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func IsNetworkError(err error) bool {
	var e *NetworkError
	return errors.As(err, &e)
}

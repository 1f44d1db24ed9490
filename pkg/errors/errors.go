// Package errors provides the structured error type shared by the wallet,
// contract and UI layers. Each failure class has a sentinel; callers attach
// the underlying cause with WithCause and match with errors.Is.
//
//nolint:revive // shadows stdlib errors
package errors

import (
	"errors"
	"fmt"
)

// Exit codes for the non-interactive subcommands.
const (
	ExitSuccess    = 0 // Successful execution
	ExitGeneral    = 1 // General/unknown error
	ExitInput      = 2 // Invalid input or configuration
	ExitPermission = 3 // Wallet missing or request rejected
	ExitNetwork    = 4 // RPC or chain failure
)

// WaveError is the structured error type for the wave portal.
type WaveError struct {
	Code     string // Machine-readable error code
	Message  string // Human-readable message
	Cause    error  // Underlying error
	ExitCode int    // Exit code for CLI
}

func (e *WaveError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *WaveError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for WaveError.
func (e *WaveError) Is(target error) bool {
	var t *WaveError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Sentinel errors.
var (
	// ErrProviderUnavailable means no wallet is reachable at all.
	ErrProviderUnavailable = &WaveError{
		Code:     "PROVIDER_UNAVAILABLE",
		Message:  "no wallet provider available",
		ExitCode: ExitPermission,
	}

	// ErrUserRejected means the wallet owner declined a request.
	ErrUserRejected = &WaveError{
		Code:     "USER_REJECTED",
		Message:  "request rejected by wallet",
		ExitCode: ExitPermission,
	}

	ErrNoAccount = &WaveError{
		Code:     "NO_ACCOUNT",
		Message:  "no connected account",
		ExitCode: ExitPermission,
	}

	ErrRead = &WaveError{
		Code:     "READ_FAILED",
		Message:  "contract read failed",
		ExitCode: ExitNetwork,
	}

	ErrSubmission = &WaveError{
		Code:     "SUBMISSION_FAILED",
		Message:  "transaction submission failed",
		ExitCode: ExitNetwork,
	}

	ErrConfirmation = &WaveError{
		Code:     "CONFIRMATION_FAILED",
		Message:  "transaction not confirmed",
		ExitCode: ExitNetwork,
	}

	ErrSubscription = &WaveError{
		Code:     "SUBSCRIPTION_FAILED",
		Message:  "event subscription failed",
		ExitCode: ExitNetwork,
	}

	ErrInvalidConfig = &WaveError{
		Code:     "CONFIG_INVALID",
		Message:  "configuration is invalid",
		ExitCode: ExitInput,
	}
)

// New creates a new WaveError with the given code and message.
func New(code, message string) *WaveError {
	return &WaveError{
		Code:     code,
		Message:  message,
		ExitCode: ExitGeneral,
	}
}

// WithCause returns a copy of the sentinel err carrying cause.
// Non-WaveError values are wrapped with fmt.Errorf.
func WithCause(err, cause error) error {
	if err == nil {
		return nil
	}
	var we *WaveError
	if !errors.As(err, &we) {
		return fmt.Errorf("%w: %w", err, cause)
	}
	return &WaveError{
		Code:     we.Code,
		Message:  we.Message,
		Cause:    cause,
		ExitCode: we.ExitCode,
	}
}

// ExitCode extracts the exit code from an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var we *WaveError
	if errors.As(err, &we) {
		return we.ExitCode
	}

	return ExitGeneral
}

// Code returns the machine-readable code of err, or "" if it has none.
func Code(err error) string {
	var we *WaveError
	if errors.As(err, &we) {
		return we.Code
	}
	return ""
}

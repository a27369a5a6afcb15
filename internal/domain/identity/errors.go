package identity

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode standardizes identity-engine failure semantics. Callers branch
// on codes, never on store-level error strings.
type ErrorCode string

const (
	// CodeNotResolvable: the token is unrecognized and no seed data can
	// stand in for it. User-facing, never retried automatically.
	CodeNotResolvable ErrorCode = "not_resolvable"
	// CodeDuplicatePhone: an insert lost a creation race. Handled inside
	// the resolver; should not escape it.
	CodeDuplicatePhone ErrorCode = "duplicate_phone"
	// CodeRaceUnresolved: retries after duplicate-phone conflicts were
	// exhausted without converging. Retryable server error.
	CodeRaceUnresolved ErrorCode = "race_unresolved"
	// CodeTimeout: a store call exceeded its deadline. Retryable;
	// distinct from bad input.
	CodeTimeout ErrorCode = "timeout"
	// CodeRepointPartial: repointing dependents failed midway; the
	// consolidation job must not delete the losing identity.
	CodeRepointPartial ErrorCode = "repoint_partial"
	CodeNotFound   ErrorCode = "not_found"
	CodeThrottled  ErrorCode = "throttled"
	CodeDenied     ErrorCode = "denied"
	CodeValidation ErrorCode = "validation"
	CodeInternal   ErrorCode = "internal"
)

// Error is the canonical engine error wrapper.
type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	op := strings.TrimSpace(e.Op)
	msg := strings.TrimSpace(e.Message)
	switch {
	case op != "" && msg != "":
		return fmt.Sprintf("%s: %s (%s)", op, msg, e.Code)
	case op != "":
		return fmt.Sprintf("%s (%s)", op, e.Code)
	case msg != "":
		return fmt.Sprintf("%s (%s)", msg, e.Code)
	default:
		return string(e.Code)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

func NewError(code ErrorCode, op, message string, cause error) error {
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Cause:   cause,
	}
}

// WrapError annotates an existing error with engine error semantics.
func WrapError(code ErrorCode, op string, err error) error {
	if err == nil {
		return nil
	}
	return NewError(code, op, err.Error(), err)
}

// IsCode checks whether err (or a wrapped err) carries the given code.
func IsCode(err error, code ErrorCode) bool {
	var engineErr *Error
	if !errors.As(err, &engineErr) {
		return false
	}
	return engineErr.Code == code
}

// CodeOf extracts the engine error code when available.
func CodeOf(err error) ErrorCode {
	var engineErr *Error
	if !errors.As(err, &engineErr) {
		return ""
	}
	return engineErr.Code
}

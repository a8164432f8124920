package domain

import (
	"errors"
	"fmt"
)

// Account and credential errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateIdentity  = errors.New("identity already registered")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrUserNotVerified    = errors.New("account not verified")
	ErrInvalidRole        = errors.New("invalid role")
	ErrWeakPassword       = errors.New("password does not meet requirements")
)

// OTP errors
var (
	ErrOTPNotFound       = errors.New("otp expired or not found")
	ErrOTPInvalid        = errors.New("invalid otp code")
	ErrOTPMaxAttempts    = errors.New("maximum otp attempts exceeded")
	ErrOTPRateLimited    = errors.New("otp request limit exceeded")
	ErrOTPResendCooldown = errors.New("otp requested too soon")
)

// Token errors. Verification failures collapse into ErrTokenInvalid so
// callers cannot distinguish expiry from tampering.
var (
	ErrTokenInvalid = errors.New("invalid or expired token")
)

// Authorization errors
var (
	ErrForbidden = errors.New("access denied")
)

// Infrastructure errors
var (
	ErrStoreUnavailable = errors.New("backing store unavailable")
)

// OTPInvalidError reports a failed code comparison along with how many
// attempts the caller has left before the challenge is destroyed.
type OTPInvalidError struct {
	AttemptsRemaining int
}

func (e *OTPInvalidError) Error() string {
	return fmt.Sprintf("invalid otp code, %d attempts remaining", e.AttemptsRemaining)
}

func (e *OTPInvalidError) Is(target error) bool { return target == ErrOTPInvalid }

// ResendCooldownError reports that a fresh code was requested inside the
// resend window. RetryAfter is the remaining wait in seconds.
type ResendCooldownError struct {
	RetryAfter int64
}

func (e *ResendCooldownError) Error() string {
	return fmt.Sprintf("please wait %d seconds before requesting a new otp", e.RetryAfter)
}

func (e *ResendCooldownError) Is(target error) bool { return target == ErrOTPResendCooldown }

// StoreError wraps an infrastructure failure from Redis or the database
// so handlers can map it to a service-unavailable response while logs
// keep the cause.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store operation %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool { return target == ErrStoreUnavailable }

// NewStoreError wraps err as a StoreError; nil stays nil.
func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

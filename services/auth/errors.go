package authService

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrLocked             = errors.New("account locked")
	ErrInactive           = errors.New("account disabled")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidRole        = errors.New("invalid user type")
	ErrWeakPassword       = errors.New("password too weak")
	ErrOTPInvalid         = errors.New("invalid or expired verification code")
	ErrTOTPInvalid        = errors.New("invalid authenticator code")
	ErrTOTPNotConfigured  = errors.New("TOTP not configured for this account")
	ErrMethodUnsupported  = errors.New("unsupported two-factor method")
	ErrPhoneRequired      = errors.New("phone number required for SMS verification")
)

// LockedError reports an account that may not log in before Until.
type LockedError struct {
	Until time.Time
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("account locked until %s", e.Until.Format(time.RFC3339))
}

func (e *LockedError) Is(target error) bool {
	return target == ErrLocked
}

// WeakPasswordError lists the rules a password failed.
type WeakPasswordError struct {
	Problems []string
}

func (e *WeakPasswordError) Error() string {
	return fmt.Sprintf("password too weak: %v", e.Problems)
}

func (e *WeakPasswordError) Is(target error) bool {
	return target == ErrWeakPassword
}

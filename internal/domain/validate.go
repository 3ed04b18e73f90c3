package domain

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	minUsernameLength    = 3
	maxUsernameLength    = 50
	minPasswordLength    = 8
	maxPasswordLength    = 128
	minNewPasswordLength = 6
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// ValidateUsername trims surrounding whitespace and enforces the username
// format. Matching stays case-sensitive; the trimmed value is what must be
// used for lookups and ledger rows.
func ValidateUsername(raw string) (string, error) {
	username := strings.TrimSpace(raw)
	if username == "" {
		return "", fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if len(username) < minUsernameLength {
		return "", fmt.Errorf("%w: username must be at least %d characters", ErrInvalidInput, minUsernameLength)
	}
	if len(username) > maxUsernameLength {
		return "", fmt.Errorf("%w: username must be at most %d characters", ErrInvalidInput, maxUsernameLength)
	}
	if !usernamePattern.MatchString(username) {
		return "", fmt.Errorf("%w: username may only contain letters, numbers, dots, underscores and hyphens", ErrInvalidInput)
	}
	return username, nil
}

// ValidatePassword enforces the login-time password format. Passwords are
// never trimmed.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("%w: password must be at most %d characters", ErrInvalidInput, maxPasswordLength)
	}
	return nil
}

// ValidateNewPassword is the weaker rule applied when changing a password.
func ValidateNewPassword(password string) error {
	if password == "" {
		return fmt.Errorf("%w: new password is required", ErrInvalidInput)
	}
	if len(password) < minNewPasswordLength {
		return fmt.Errorf("%w: new password must be at least %d characters", ErrInvalidInput, minNewPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("%w: new password must be at most %d characters", ErrInvalidInput, maxPasswordLength)
	}
	return nil
}

// Package auth holds the client-side credential checks run before any
// auth request leaves the process.
package auth

import "errors"

var (
	ErrUsernameRequired = errors.New("Username is a required field")
	ErrUsernameTooShort = errors.New("Username must be at least 6 characters")
	ErrPasswordRequired = errors.New("Password is a required field")
	ErrPasswordTooShort = errors.New("Password must be at least 6 characters")
	ErrPasswordMismatch = errors.New("Passwords do not match")
)

// ValidateLogin checks the login form. Only presence is required; length
// rules apply at registration time.
func ValidateLogin(username, password string) error {
	if username == "" {
		return ErrUsernameRequired
	}
	if password == "" {
		return ErrPasswordRequired
	}
	return nil
}

// ValidateRegistration checks the registration form, in the order the
// storefront has always reported problems.
func ValidateRegistration(username, password, confirm string) error {
	if username == "" {
		return ErrUsernameRequired
	}
	if len(username) < 6 {
		return ErrUsernameTooShort
	}
	if password == "" {
		return ErrPasswordRequired
	}
	if len(password) < 6 {
		return ErrPasswordTooShort
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	return nil
}

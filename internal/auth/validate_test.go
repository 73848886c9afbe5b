package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateLogin(t *testing.T) {
	assert.ErrorIs(t, ValidateLogin("", "pass"), ErrUsernameRequired)
	assert.ErrorIs(t, ValidateLogin("criodo", ""), ErrPasswordRequired)
	// login does not enforce length rules
	assert.NoError(t, ValidateLogin("abc", "xy"))
	assert.NoError(t, ValidateLogin("criodo", "criopass"))
}

func TestValidateRegistration(t *testing.T) {
	assert.ErrorIs(t, ValidateRegistration("", "criopass", "criopass"), ErrUsernameRequired)
	assert.ErrorIs(t, ValidateRegistration("abc", "criopass", "criopass"), ErrUsernameTooShort)
	assert.ErrorIs(t, ValidateRegistration("criodo", "", ""), ErrPasswordRequired)
	assert.ErrorIs(t, ValidateRegistration("criodo", "short", "short"), ErrPasswordTooShort)
	assert.ErrorIs(t, ValidateRegistration("criodo", "criopass", "different"), ErrPasswordMismatch)
	assert.NoError(t, ValidateRegistration("criodo", "criopass", "criopass"))
}

func TestMessagesMatchStorefrontCopy(t *testing.T) {
	assert.EqualError(t, ErrUsernameRequired, "Username is a required field")
	assert.EqualError(t, ErrUsernameTooShort, "Username must be at least 6 characters")
	assert.EqualError(t, ErrPasswordRequired, "Password is a required field")
	assert.EqualError(t, ErrPasswordTooShort, "Password must be at least 6 characters")
	assert.EqualError(t, ErrPasswordMismatch, "Passwords do not match")
}

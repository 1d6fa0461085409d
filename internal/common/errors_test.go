package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserMessage_AuthErrorsRenderIdentically(t *testing.T) {
	unknown := UserMessage(fmt.Errorf("authenticate: %w", ErrUnknownUser))
	wrong := UserMessage(fmt.Errorf("authenticate: %w", ErrWrongPassword))

	assert.Equal(t, InvalidCredentialsMessage, unknown)
	assert.Equal(t, unknown, wrong)
	assert.False(t, errors.Is(ErrUnknownUser, ErrWrongPassword))
}

func TestUserMessage_Fallbacks(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, "Something went wrong.", UserMessage(errors.New("disk on fire")))
	assert.Equal(t, "Username already exists. Please pick another.", UserMessage(ErrUsernameTaken))
}

func TestIsAuthError(t *testing.T) {
	assert.True(t, IsAuthError(ErrUnknownUser))
	assert.True(t, IsAuthError(fmt.Errorf("x: %w", ErrWrongPassword)))
	assert.False(t, IsAuthError(ErrUsernameTaken))
}

func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(ErrEmptyUsername))
	assert.True(t, IsValidation(fmt.Errorf("post: %w", ErrInvalidTag)))
	assert.False(t, IsValidation(ErrExternalUnavailable))
	assert.False(t, IsValidation(ErrUsernameTaken))
}

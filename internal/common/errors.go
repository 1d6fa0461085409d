// Package common defines shared constants and sentinel errors used across
// the CropCare server, its services and the admin CLI. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound     = errors.New("not found")
	ErrStorageCorrupt = errors.New("storage document corrupt")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Account errors (signup).
	ErrEmptyUsername    = errors.New("empty username")
	ErrUsernameTaken    = errors.New("username already exists")
	ErrPasswordMismatch = errors.New("passwords do not match")

	// Auth errors (login). Both render as the same user-facing text.
	ErrUnknownUser   = errors.New("unknown user")
	ErrWrongPassword = errors.New("wrong password")

	// Session/token errors.
	ErrInvalidToken    = errors.New("invalid token")
	ErrTokenExpired    = errors.New("token expired")
	ErrSessionNotFound = errors.New("session not found")

	// Collaborator errors (weather, geolocation, assistant, object storage).
	ErrExternalUnavailable = errors.New("external service unavailable")

	// Validation errors.
	ErrCityRequired     = errors.New("city required")
	ErrEmptyMessage     = errors.New("empty message")
	ErrEmptyPost        = errors.New("empty post")
	ErrInvalidTag       = errors.New("invalid tag")
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrInvalidImageName = errors.New("invalid image name")

	// Forum errors.
	ErrForumNotJoined = errors.New("forum not joined")
)

// IsAuthError reports whether err is one of the credential failures that
// must not be told apart at the user boundary.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrUnknownUser) || errors.Is(err, ErrWrongPassword)
}

// IsValidation reports whether err is caused by bad user input.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrEmptyUsername, ErrPasswordMismatch, ErrCityRequired, ErrEmptyMessage,
		ErrEmptyPost, ErrInvalidTag, ErrUnsupportedImage, ErrInvalidImageName,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

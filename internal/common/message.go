package common

import "errors"

// InvalidCredentialsMessage is shown for both unknown users and wrong passwords.
const InvalidCredentialsMessage = "Invalid credentials."

var userMessages = []struct {
	err error
	msg string
}{
	{ErrEmptyUsername, "Enter a username."},
	{ErrUsernameTaken, "Username already exists. Please pick another."},
	{ErrPasswordMismatch, "Passwords do not match."},
	{ErrUnknownUser, InvalidCredentialsMessage},
	{ErrWrongPassword, InvalidCredentialsMessage},
	{ErrorUnauthorized, "Please login first."},
	{ErrInvalidToken, "Please login first."},
	{ErrTokenExpired, "Session expired. Please login again."},
	{ErrSessionNotFound, "Session expired. Please login again."},
	{ErrCityRequired, "Please enter or detect a city."},
	{ErrEmptyMessage, "Please type a question."},
	{ErrEmptyPost, "Please enter some text."},
	{ErrInvalidTag, "Unknown tag."},
	{ErrUnsupportedImage, "Only jpg, jpeg and png images are accepted."},
	{ErrInvalidImageName, "Invalid image name."},
	{ErrForumNotJoined, "Please agree to the forum rules to participate."},
	{ErrExternalUnavailable, "Data unavailable right now. Please try again later."},
	{ErrorNotFound, "Not found."},
}

// UserMessage maps an error to the text shown to the end user.
// Unknown errors get a generic message so internals never leak.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	for _, m := range userMessages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return "Something went wrong."
}

package domain

import "errors"

var (
	// ErrUserNotFound is returned when a user record is not found
	ErrUserNotFound = errors.New("user not found")

	// ErrMovieNotFound is returned when no movie exists for a code
	ErrMovieNotFound = errors.New("movie not found")

	// ErrPendingNotFound is returned when a pending join request id is unknown
	ErrPendingNotFound = errors.New("pending join request not found")

	// ErrSettingNotFound is returned when a settings key has no value
	ErrSettingNotFound = errors.New("setting not found")

	// ErrDeliveryFailed is returned when the platform refused to deliver a file
	ErrDeliveryFailed = errors.New("file delivery failed")
)

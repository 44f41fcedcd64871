package repository

import "errors"

// Common repository errors
var (
	// ErrNotFound is returned when a record is not found
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when a unique constraint on email is violated
	ErrDuplicateEmail = errors.New("user with this email already exists")

	// ErrDuplicateUsername is returned when a unique constraint on username is violated
	ErrDuplicateUsername = errors.New("user with this username already exists")

	// ErrDuplicateProviderID is returned when a provider id is already bound to a user
	ErrDuplicateProviderID = errors.New("provider id already bound to a user")

	// ErrDuplicateLike is returned when a (activity, user) like pair already exists
	ErrDuplicateLike = errors.New("activity already liked by this user")

	// ErrDuplicateFollow is returned when a follow edge already exists
	ErrDuplicateFollow = errors.New("follow relationship already exists")
)

package service

import "errors"

// Service-level sentinels. Handlers map them to HTTP statuses with errors.Is;
// anything not listed here is treated as an internal error.
var (
	// ErrInvalidCredentials covers every password-login failure: unknown
	// identifier, wrong password, soft-deleted account. Callers cannot tell
	// the cases apart.
	ErrInvalidCredentials = errors.New("invalid email/username or password")

	ErrEmailTaken      = errors.New("email already registered")
	ErrUsernameTaken   = errors.New("username already taken")
	ErrAccountDeleted  = errors.New("account has been deleted")
	ErrUserNotFound    = errors.New("user not found")
	ErrProfilePrivate  = errors.New("profile is private")
	ErrNoPassword      = errors.New("account has no password set")
	ErrWrongPassword   = errors.New("current password is incorrect")
	ErrValidation      = errors.New("validation failed")
	ErrUnknownProvider = errors.New("unknown social provider")

	ErrPinNotFound     = errors.New("pin not found")
	ErrInvalidLocation = errors.New("invalid location coordinates")

	// ErrRateLimited marks a request rejected by the sliding-window limiter.
	ErrRateLimited = errors.New("rate limit exceeded")

	ErrSelfFollow       = errors.New("cannot follow yourself")
	ErrNotFollowing     = errors.New("not following this user")
	ErrActivityNotFound = errors.New("activity not found")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrLikeNotFound     = errors.New("like not found")
)

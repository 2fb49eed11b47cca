package user

import "errors"

// Repository-level errors
var (
	ErrUserNotFound          = errors.New("user not found")
	ErrEmailAlreadyExists    = errors.New("a user with that email already exists")
	ErrUsernameAlreadyExists = errors.New("a user with that username already exists")
)

// Service-level errors. The login form reports unknown email and wrong
// password separately.
var (
	ErrEmailNotFound     = errors.New("Email does not exist")
	ErrIncorrectPassword = errors.New("Incorrect password")
	ErrUserInactive      = errors.New("user account is inactive")
	ErrTooManyAttempts   = errors.New("too many login attempts, please try again later")
	ErrInvalidToken      = errors.New("invalid or expired token")
	ErrCannotDeleteSelf  = errors.New("you cannot delete your own account")
	ErrPasswordMismatch  = errors.New("passwords do not match")
)

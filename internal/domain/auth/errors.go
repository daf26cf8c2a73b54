package auth

import "errors"

var (
	// ErrUsernameExists indicates a duplicate username.
	ErrUsernameExists = errors.New("username already exists")
	// ErrEmailExists indicates a duplicate email address.
	ErrEmailExists = errors.New("email already exists")
)

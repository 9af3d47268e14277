package auth

import "errors"

var (
	ErrMissingEmail    = errors.New("missing email")
	ErrMissingPassword = errors.New("missing password")
	ErrEmailExists     = errors.New("email already exists")
	ErrUnauthorized    = errors.New("unauthorized")
)

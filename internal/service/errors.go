package service

import "errors"

var (
	ErrInvalidUsername = errors.New("username must be alphanumeric")
	ErrUsernameTaken   = errors.New("username is already taken")
	ErrUserNotFound    = errors.New("user not found")
	ErrStorageFailure  = errors.New("storage failure")
)

package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrAlreadyFavorited   = errors.New("movie is already a favorite")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrFavoriteNotFound   = errors.New("favorite not found")

	// ErrUnauthenticated means no credential was presented at all.
	ErrUnauthenticated = errors.New("access token required")
	// ErrUnauthorized is the parent of every rejected-token condition.
	ErrUnauthorized = errors.New("unauthorized")
	ErrTokenExpired = fmt.Errorf("%w: token expired", ErrUnauthorized)
	ErrTokenInvalid = fmt.Errorf("%w: invalid token", ErrUnauthorized)
)

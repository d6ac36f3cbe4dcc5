package service

import (
	"errors"
	"fmt"
)

// ErrNotFound is the parent of every lookup failure the service reports.
var ErrNotFound = errors.New("not found")

// Lookup errors. Each wraps ErrNotFound.
var (
	ErrShortURLNotFound = fmt.Errorf("short URL %w", ErrNotFound)
	ErrNoURLsFound      = fmt.Errorf("no URLs %w", ErrNotFound)
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)
)

// Validation errors.
var (
	ErrLongURLRequired = errors.New("longUrl is required")
	ErrInvalidURL      = errors.New("invalid destination URL")
	ErrURLTooLong      = errors.New("destination URL too long")
	ErrInvalidAlias    = errors.New("invalid alias format")
	ErrInvalidTopic    = errors.New("invalid topic")
	ErrAliasExists     = errors.New("alias already in use")
	ErrTokenRequired   = errors.New("token is required")
)

// Authentication errors.
var (
	ErrInvalidCredentials = errors.New("invalid sign-in token")
	ErrUnauthorized       = errors.New("invalid or expired token")
)

package domain

import (
	"errors"
	"fmt"
)

// Failure kinds surfaced to the transport layer. Every error returned by a
// directory or the auth service matches exactly one of these via errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrUnavailable  = errors.New("store unavailable")
)

var (
	ErrAccountNotFound    = fmt.Errorf("account %w", ErrNotFound)
	ErrItemNotFound       = fmt.Errorf("item %w", ErrNotFound)
	ErrEmailTaken         = fmt.Errorf("email already registered: %w", ErrConflict)
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
	ErrInvalidRole        = errors.New("invalid role")
	ErrTokenIssuance      = errors.New("token issuance failed")
	// ErrUnknownIndex means a store was queried by an index it was not built
	// with. It is a wiring fault, not a client error.
	ErrUnknownIndex = errors.New("unknown index")
)

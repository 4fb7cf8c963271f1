package service

import "errors"

var (
	// ErrNoSession means the handle has no active session at all.
	ErrNoSession = errors.New("no active session for user handle")

	// ErrNoSigningKey means the session exists but carries no cached signing
	// seed; lifecycle operations must not touch the chain in that state.
	ErrNoSigningKey = errors.New("no cached signing key in session")
)

package gateway

import "errors"

// The three error kinds callers see. Everything the provider reports is
// translated into one of these before leaving the gateway.
var (
	ErrInvalidKey = errors.New("invalid session key")

	ErrNotFound = errors.New("session not found")

	ErrUpstreamUnavailable = errors.New("timing provider unavailable")
)

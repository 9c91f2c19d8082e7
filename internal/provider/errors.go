package provider

import "errors"

var (
	ErrNoSession = errors.New("no session matches query")

	ErrUnavailable = errors.New("timing api unavailable")

	ErrDecode = errors.New("malformed timing api payload")
)

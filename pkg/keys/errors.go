package keys

import "errors"

var (
	// ErrUnknownKey is returned when a key or group name cannot be resolved
	ErrUnknownKey = errors.New("unknown key")

	// ErrUnknownGroup is returned when a group name cannot be resolved
	ErrUnknownGroup = errors.New("unknown key group")
)

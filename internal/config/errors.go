package config

import "errors"

var (
	// ErrUnknownStep is returned when a step names an op that does not exist.
	ErrUnknownStep = errors.New("unknown step op")
	// ErrInvalidStep is returned when a step is missing keys or a timeout.
	ErrInvalidStep = errors.New("invalid step")
	// ErrInvalidSequence is returned for unnamed or duplicate sequences.
	ErrInvalidSequence = errors.New("invalid sequence")
	// ErrInvalidSource is returned for an unknown keyboard source.
	ErrInvalidSource = errors.New("invalid keyboard source")
	// ErrUnsupportedFormat is returned for config files that are neither JSON nor TOML.
	ErrUnsupportedFormat = errors.New("unsupported config format")
)

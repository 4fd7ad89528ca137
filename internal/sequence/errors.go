package sequence

import "errors"

var (
	// ErrNoWait is returned when looping a sequence that never blocks.
	ErrNoWait = errors.New("sequence has no wait step")
	// ErrNotFound is returned for an unknown sequence name.
	ErrNotFound = errors.New("sequence not found")
)

package trigger

import "errors"

// ErrEmptySpec is raised when a spec would contain no keys
var ErrEmptySpec = errors.New("trigger spec needs at least one key")

package hotkey

import "errors"

var (
	// ErrUnsupportedPlatform is returned by Start where no global hook exists.
	ErrUnsupportedPlatform = errors.New("global keyboard hooks not supported on this platform")
	// ErrHookFailed is returned when the OS refuses to install the hook.
	ErrHookFailed = errors.New("failed to install keyboard hook")
	// ErrNoKeyboard is returned when no keyboard input device can be found.
	ErrNoKeyboard = errors.New("no keyboard device found")
)

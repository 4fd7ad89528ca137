// Package keys defines keyboard key identifiers, left/right modifier
// normalization, and the semantic key groups used by trigger matching.
package keys

import (
	"fmt"
	"strings"
)

// Keycode identifies one physical key.
type Keycode uint16

const (
	// KeyNone represents no key.
	KeyNone Keycode = iota

	// Digits on the main row
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9

	// Letters
	A
	B
	C
	D
	E
	F
	G
	H
	I
	J
	K
	L
	M
	N
	O
	P
	Q
	R
	S
	T
	U
	V
	W
	X
	Y
	Z

	// Function keys
	F1
	F2
	F3
	F4
	F5
	F6
	F7
	F8
	F9
	F10
	F11
	F12

	// Special keys
	Escape
	Space
	Enter
	Tab
	Backspace
	CapsLock
	Insert
	Delete

	// Navigation keys
	Up
	Down
	Left
	Right
	Home
	End
	PageUp
	PageDown

	// Modifiers. Control, Shift and Alt are the canonical forms the
	// left/right variants normalize to.
	Control
	LControl
	RControl
	Shift
	LShift
	RShift
	Alt
	LAlt
	RAlt
	Meta

	// Numeric keypad
	Numpad0
	Numpad1
	Numpad2
	Numpad3
	Numpad4
	Numpad5
	Numpad6
	Numpad7
	Numpad8
	Numpad9
	NumpadSubtract
	NumpadAdd
	NumpadDivide
	NumpadMultiply
	NumpadDecimal
	NumpadEnter

	// Symbols
	Grave
	Minus
	Equal
	LeftBracket
	RightBracket
	BackSlash
	Semicolon
	Apostrophe
	Comma
	Dot
	Slash

	keycodeCount
)

var keycodeNames = [keycodeCount]string{
	KeyNone: "None",
	Key0:    "Key0", Key1: "Key1", Key2: "Key2", Key3: "Key3", Key4: "Key4",
	Key5: "Key5", Key6: "Key6", Key7: "Key7", Key8: "Key8", Key9: "Key9",
	A: "A", B: "B", C: "C", D: "D", E: "E", F: "F", G: "G", H: "H", I: "I",
	J: "J", K: "K", L: "L", M: "M", N: "N", O: "O", P: "P", Q: "Q", R: "R",
	S: "S", T: "T", U: "U", V: "V", W: "W", X: "X", Y: "Y", Z: "Z",
	F1: "F1", F2: "F2", F3: "F3", F4: "F4", F5: "F5", F6: "F6",
	F7: "F7", F8: "F8", F9: "F9", F10: "F10", F11: "F11", F12: "F12",
	Escape:    "Escape",
	Space:     "Space",
	Enter:     "Enter",
	Tab:       "Tab",
	Backspace: "Backspace",
	CapsLock:  "CapsLock",
	Insert:    "Insert",
	Delete:    "Delete",
	Up:        "Up",
	Down:      "Down",
	Left:      "Left",
	Right:     "Right",
	Home:      "Home",
	End:       "End",
	PageUp:    "PageUp",
	PageDown:  "PageDown",
	Control:   "Control",
	LControl:  "LControl",
	RControl:  "RControl",
	Shift:     "Shift",
	LShift:    "LShift",
	RShift:    "RShift",
	Alt:       "Alt",
	LAlt:      "LAlt",
	RAlt:      "RAlt",
	Meta:      "Meta",
	Numpad0:   "Numpad0", Numpad1: "Numpad1", Numpad2: "Numpad2", Numpad3: "Numpad3",
	Numpad4: "Numpad4", Numpad5: "Numpad5", Numpad6: "Numpad6", Numpad7: "Numpad7",
	Numpad8: "Numpad8", Numpad9: "Numpad9",
	NumpadSubtract: "NumpadSubtract",
	NumpadAdd:      "NumpadAdd",
	NumpadDivide:   "NumpadDivide",
	NumpadMultiply: "NumpadMultiply",
	NumpadDecimal:  "NumpadDecimal",
	NumpadEnter:    "NumpadEnter",
	Grave:          "Grave",
	Minus:          "Minus",
	Equal:          "Equal",
	LeftBracket:    "LeftBracket",
	RightBracket:   "RightBracket",
	BackSlash:      "BackSlash",
	Semicolon:      "Semicolon",
	Apostrophe:     "Apostrophe",
	Comma:          "Comma",
	Dot:            "Dot",
	Slash:          "Slash",
}

// String returns the key name, e.g. "A", "Key1", "LControl".
func (k Keycode) String() string {
	if k < keycodeCount {
		return keycodeNames[k]
	}
	return fmt.Sprintf("Keycode(%d)", uint16(k))
}

// IsModifier reports whether k is a Control, Shift, Alt or Meta key.
func (k Keycode) IsModifier() bool {
	return k >= Control && k <= Meta
}

// All returns every known key except KeyNone, in declaration order.
func All() []Keycode {
	all := make([]Keycode, 0, keycodeCount-1)
	for k := KeyNone + 1; k < keycodeCount; k++ {
		all = append(all, k)
	}
	return all
}

// aliases maps alternative spellings (lowercase) to keys.
var aliases = map[string]Keycode{
	"ctrl":      Control,
	"lctrl":     LControl,
	"rctrl":     RControl,
	"option":    Alt,
	"opt":       Alt,
	"cmd":       Meta,
	"command":   Meta,
	"win":       Meta,
	"super":     Meta,
	"esc":       Escape,
	"return":    Enter,
	"cr":        Enter,
	"bs":        Backspace,
	"del":       Delete,
	"ins":       Insert,
	"pgup":      PageUp,
	"pgdn":      PageDown,
	"space":     Space,
	"`":         Grave,
	"-":         Minus,
	"=":         Equal,
	"[":         LeftBracket,
	"]":         RightBracket,
	"\\":        BackSlash,
	";":         Semicolon,
	"'":         Apostrophe,
	",":         Comma,
	".":         Dot,
	"/":         Slash,
	"backslash": BackSlash,
}

var keycodeByName map[string]Keycode

func init() {
	keycodeByName = make(map[string]Keycode, int(keycodeCount)+len(aliases)+10)
	for k := KeyNone + 1; k < keycodeCount; k++ {
		keycodeByName[strings.ToLower(keycodeNames[k])] = k
	}
	for d := 0; d <= 9; d++ {
		keycodeByName[fmt.Sprintf("%d", d)] = Key0 + Keycode(d)
	}
	for name, k := range aliases {
		keycodeByName[name] = k
	}
}

// Parse resolves a key name. Names are case-insensitive and accept the
// String forms ("LControl", "Key1"), bare digits ("1") and common aliases
// ("Ctrl", "Esc", "Cmd").
func Parse(name string) (Keycode, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return KeyNone, fmt.Errorf("%w: empty name", ErrUnknownKey)
	}
	if k, ok := keycodeByName[strings.ToLower(trimmed)]; ok {
		return k, nil
	}
	return KeyNone, fmt.Errorf("%w: %q", ErrUnknownKey, name)
}

package keys

import (
	"fmt"
	"strings"
)

// Group is a semantic category of keys where any member counts as a match.
type Group int

const (
	Number Group = iota
	Alphabet
	Symbol
	ModifierKey
	FunctionKey
	NavigationKey
	NumericKey
)

var groupKeys = map[Group][]Keycode{
	Number:   {Key0, Key1, Key2, Key3, Key4, Key5, Key6, Key7, Key8, Key9},
	Alphabet: {A, B, C, D, E, F, G, H, I, J, K, L, M, N, O, P, Q, R, S, T, U, V, W, X, Y, Z},
	Symbol: {
		Grave, Minus, Equal, LeftBracket, RightBracket, BackSlash,
		Semicolon, Apostrophe, Comma, Dot, Slash,
	},
	ModifierKey: {LControl, RControl, LShift, RShift, LAlt, RAlt, Meta},
	FunctionKey: {F1, F2, F3, F4, F5, F6, F7, F8, F9, F10, F11, F12},
	NavigationKey: {
		Up, Down, Left, Right, Home, End, PageUp, PageDown,
	},
	NumericKey: {
		Numpad0, Numpad1, Numpad2, Numpad3, Numpad4,
		Numpad5, Numpad6, Numpad7, Numpad8, Numpad9,
		NumpadSubtract, NumpadAdd, NumpadDivide, NumpadMultiply,
		NumpadDecimal, NumpadEnter,
	},
}

var groupNames = map[Group]string{
	Number:        "Number",
	Alphabet:      "Alphabet",
	Symbol:        "Symbol",
	ModifierKey:   "ModifierKey",
	FunctionKey:   "FunctionKey",
	NavigationKey: "NavigationKey",
	NumericKey:    "NumericKey",
}

// Groups returns every group in declaration order.
func Groups() []Group {
	return []Group{Number, Alphabet, Symbol, ModifierKey, FunctionKey, NavigationKey, NumericKey}
}

// Keys returns a copy of the group's members in their fixed order.
func (g Group) Keys() []Keycode {
	members := groupKeys[g]
	out := make([]Keycode, len(members))
	copy(out, members)
	return out
}

// Contains reports whether k, after normalization, belongs to the group.
func (g Group) Contains(k Keycode) bool {
	for _, member := range groupKeys[g] {
		if SameKey(member, k) {
			return true
		}
	}
	return false
}

func (g Group) String() string {
	if name, ok := groupNames[g]; ok {
		return name
	}
	return fmt.Sprintf("Group(%d)", int(g))
}

// ParseGroup resolves a group name case-insensitively.
func ParseGroup(name string) (Group, error) {
	for g, n := range groupNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return g, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownGroup, name)
}

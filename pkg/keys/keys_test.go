package keys

import (
	"errors"
	"testing"
)

func TestNormalizeModifiers(t *testing.T) {
	tests := []struct {
		left, right, canonical Keycode
	}{
		{LControl, RControl, Control},
		{LShift, RShift, Shift},
		{LAlt, RAlt, Alt},
	}

	for _, tt := range tests {
		if Normalize(tt.left) != Normalize(tt.right) {
			t.Errorf("Expected %s and %s to normalize equal", tt.left, tt.right)
		}
		if Normalize(tt.left) != Normalize(tt.canonical) {
			t.Errorf("Expected %s to normalize to %s, got %s", tt.left, tt.canonical, Normalize(tt.left))
		}
	}
}

func TestNormalizeIdentity(t *testing.T) {
	for _, k := range All() {
		switch k {
		case LControl, RControl, LShift, RShift, LAlt, RAlt:
			continue
		}
		if Normalize(k) != k {
			t.Errorf("Expected %s to be normalization-invariant, got %s", k, Normalize(k))
		}
	}
}

func TestNormalizeAllDoesNotMutate(t *testing.T) {
	in := []Keycode{LShift, A}
	out := NormalizeAll(in)

	if in[0] != LShift {
		t.Errorf("Expected input to stay LShift, got %s", in[0])
	}
	if out[0] != Shift || out[1] != A {
		t.Errorf("Expected [Shift A], got %v", out)
	}
}

func TestSameKey(t *testing.T) {
	tests := []struct {
		a, b Keycode
		want bool
	}{
		{LControl, RControl, true},
		{LControl, Control, true},
		{RControl, Control, true},
		{LShift, RShift, true},
		{LShift, Shift, true},
		{LAlt, RAlt, true},
		{RAlt, Alt, true},
		{A, A, true},
		{A, B, false},
		{LShift, LControl, false},
	}

	for _, tt := range tests {
		if got := SameKey(tt.a, tt.b); got != tt.want {
			t.Errorf("Expected SameKey(%s, %s) = %v, got %v", tt.a, tt.b, tt.want, got)
		}
		if got := SameKey(tt.b, tt.a); got != tt.want {
			t.Errorf("Expected SameKey(%s, %s) = %v, got %v", tt.b, tt.a, tt.want, got)
		}
	}
}

func TestKeycodeString(t *testing.T) {
	tests := map[Keycode]string{
		A:            "A",
		Key1:         "Key1",
		LControl:     "LControl",
		Numpad3:      "Numpad3",
		Escape:       "Escape",
		Keycode(9999): "Keycode(9999)",
	}

	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("Expected %q, got %q", want, got)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		want Keycode
	}{
		{"A", A},
		{"a", A},
		{"Key1", Key1},
		{"1", Key1},
		{"ctrl", Control},
		{"LControl", LControl},
		{"Esc", Escape},
		{"cmd", Meta},
		{" Shift ", Shift},
		{"/", Slash},
		{"numpad7", Numpad7},
	}

	for _, tt := range tests {
		got, err := Parse(tt.name)
		if err != nil {
			t.Errorf("Parse(%q) returned error: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q): expected %s, got %s", tt.name, tt.want, got)
		}
	}
}

func TestParseUnknown(t *testing.T) {
	for _, name := range []string{"", "Hyper", "F13"} {
		if _, err := Parse(name); !errors.Is(err, ErrUnknownKey) {
			t.Errorf("Parse(%q): expected ErrUnknownKey, got %v", name, err)
		}
	}
}

func TestParseRoundTripsNames(t *testing.T) {
	for _, k := range All() {
		got, err := Parse(k.String())
		if err != nil {
			t.Errorf("Parse(%q) returned error: %v", k.String(), err)
			continue
		}
		if got != k {
			t.Errorf("Parse(%q): expected %s, got %s", k.String(), k, got)
		}
	}
}

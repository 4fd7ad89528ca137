package keys

import (
	"errors"
	"testing"
)

func TestGroupContains(t *testing.T) {
	if !Alphabet.Contains(A) {
		t.Error("Expected Alphabet to contain A")
	}
	if Alphabet.Contains(Key1) {
		t.Error("Expected Alphabet not to contain Key1")
	}
	if !Number.Contains(Key9) {
		t.Error("Expected Number to contain Key9")
	}
	if Number.Contains(Numpad9) {
		t.Error("Expected Number not to contain Numpad9")
	}
	if !NumericKey.Contains(Numpad9) {
		t.Error("Expected NumericKey to contain Numpad9")
	}
}

func TestModifierGroupNormalizes(t *testing.T) {
	for _, k := range []Keycode{Control, Shift, Alt, RControl, LShift, Meta} {
		if !ModifierKey.Contains(k) {
			t.Errorf("Expected ModifierKey to contain %s", k)
		}
	}
}

func TestGroupKeysIsCopy(t *testing.T) {
	members := Number.Keys()
	if len(members) != 10 {
		t.Fatalf("Expected 10 digits, got %d", len(members))
	}
	members[0] = Z

	if Number.Keys()[0] != Key0 {
		t.Error("Expected group table to be unaffected by caller mutation")
	}
}

func TestGroupsNonEmpty(t *testing.T) {
	for _, g := range Groups() {
		if len(g.Keys()) == 0 {
			t.Errorf("Expected group %s to have members", g)
		}
	}
}

func TestParseGroup(t *testing.T) {
	g, err := ParseGroup("functionkey")
	if err != nil {
		t.Fatalf("ParseGroup returned error: %v", err)
	}
	if g != FunctionKey {
		t.Errorf("Expected FunctionKey, got %s", g)
	}

	if _, err := ParseGroup("Emoji"); !errors.Is(err, ErrUnknownGroup) {
		t.Errorf("Expected ErrUnknownGroup, got %v", err)
	}
}

package keys

// Normalize maps left/right Control, Shift and Alt onto their canonical
// form. Every other key maps to itself.
func Normalize(k Keycode) Keycode {
	switch k {
	case LControl, RControl:
		return Control
	case LShift, RShift:
		return Shift
	case LAlt, RAlt:
		return Alt
	default:
		return k
	}
}

// NormalizeAll returns a normalized copy of ks.
func NormalizeAll(ks []Keycode) []Keycode {
	out := make([]Keycode, len(ks))
	for i, k := range ks {
		out[i] = Normalize(k)
	}
	return out
}

// SameKey reports whether a and b name the same key after normalization.
func SameKey(a, b Keycode) bool {
	return Normalize(a) == Normalize(b)
}

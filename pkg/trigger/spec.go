// Package trigger describes what counts as a key match: an exact key
// combination or any key from one or more semantic groups.
package trigger

import (
	"fmt"
	"strings"

	"kap/pkg/keys"
)

// Spec is an immutable trigger specification.
type Spec struct {
	keys  []keys.Keycode
	group bool
}

// FromKey matches exactly one key.
func FromKey(k keys.Keycode) Spec {
	return FromKeys(k)
}

// FromKeys matches an exact key combination, in any order.
// It panics when called without keys.
func FromKeys(ks ...keys.Keycode) Spec {
	if len(ks) == 0 {
		panic(ErrEmptySpec)
	}
	owned := make([]keys.Keycode, len(ks))
	copy(owned, ks)
	return Spec{keys: owned}
}

// FromGroup matches any single key of g.
func FromGroup(g keys.Group) Spec {
	return FromGroups(g)
}

// FromGroups matches any single key of any of the groups.
// It panics when called without groups.
func FromGroups(gs ...keys.Group) Spec {
	if len(gs) == 0 {
		panic(ErrEmptySpec)
	}
	var members []keys.Keycode
	for _, g := range gs {
		members = append(members, g.Keys()...)
	}
	if len(members) == 0 {
		panic(ErrEmptySpec)
	}
	return Spec{keys: members, group: true}
}

// Keys returns a copy of the specified keys.
func (s Spec) Keys() []keys.Keycode {
	out := make([]keys.Keycode, len(s.keys))
	copy(out, s.keys)
	return out
}

// IsGroup reports whether any single member key is enough to match.
func (s Spec) IsGroup() bool {
	return s.group
}

// Match tests an observed key snapshot against the spec.
func (s Spec) Match(observed []keys.Keycode) bool {
	if s.group {
		return MatchesAny(s.keys, observed)
	}
	return MatchesExact(s.keys, observed)
}

func (s Spec) String() string {
	names := make([]string, len(s.keys))
	for i, k := range s.keys {
		names[i] = k.String()
	}
	if s.group {
		return "any(" + strings.Join(names, "|") + ")"
	}
	return strings.Join(names, "+")
}

// MatchesExact reports whether observed holds the same keys as want,
// ignoring order and left/right modifier differences.
func MatchesExact(want, observed []keys.Keycode) bool {
	if len(want) != len(observed) {
		return false
	}
	normalized := keys.NormalizeAll(observed)
	for _, k := range want {
		if !contains(normalized, keys.Normalize(k)) {
			return false
		}
	}
	return true
}

// MatchesAny reports whether any observed key belongs to group.
func MatchesAny(group, observed []keys.Keycode) bool {
	normalized := keys.NormalizeAll(group)
	for _, k := range observed {
		if contains(normalized, keys.Normalize(k)) {
			return true
		}
	}
	return false
}

// MatchAny reports whether at least one spec matches observed.
func MatchAny(specs []Spec, observed []keys.Keycode) bool {
	for _, s := range specs {
		if s.Match(observed) {
			return true
		}
	}
	return false
}

func contains(ks []keys.Keycode, k keys.Keycode) bool {
	for _, candidate := range ks {
		if candidate == k {
			return true
		}
	}
	return false
}

// Parse builds a spec from a hotkey string such as "Ctrl+Shift+A".
// A leading "@" selects groups instead: "@Number" or "@Alphabet|Symbol".
func Parse(s string) (Spec, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Spec{}, ErrEmptySpec
	}

	if strings.HasPrefix(s, "@") {
		var groups []keys.Group
		for _, name := range strings.Split(s[1:], "|") {
			g, err := keys.ParseGroup(name)
			if err != nil {
				return Spec{}, fmt.Errorf("parse trigger %q: %w", s, err)
			}
			groups = append(groups, g)
		}
		return FromGroups(groups...), nil
	}

	parts := strings.Split(s, "+")
	combo := make([]keys.Keycode, 0, len(parts))
	for _, part := range parts {
		k, err := keys.Parse(part)
		if err != nil {
			return Spec{}, fmt.Errorf("parse trigger %q: %w", s, err)
		}
		combo = append(combo, k)
	}
	return FromKeys(combo...), nil
}

// ParseAll parses every string, stopping at the first error.
func ParseAll(ss []string) ([]Spec, error) {
	specs := make([]Spec, 0, len(ss))
	for _, s := range ss {
		spec, err := Parse(s)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

package kap

import (
	"time"

	"kap/pkg/keys"
	"kap/pkg/trigger"
)

// Until blocks until a key-down matches any of specs. It has no timeout.
func (k *Kap) Until(specs ...trigger.Spec) *Kap {
	return k.UntilRepeat(1, specs...)
}

// UntilRepeat blocks until repeat matching key-downs were seen.
// Non-matching presses are ignored.
func (k *Kap) UntilRepeat(repeat int, specs ...trigger.Spec) *Kap {
	if k.state == Done {
		return k
	}
	if repeat < 1 {
		repeat = 1
	}

	var buffer Record
	err := k.edges.Run(k.ctx, func(_ time.Time, pressed []keys.Keycode) bool {
		if pressed == nil || !trigger.MatchAny(specs, pressed) {
			return false
		}
		buffer = append(buffer, pressed)
		return len(buffer) >= repeat
	})
	if err != nil {
		k.interrupted("until", err)
		return k
	}

	k.resolve("until", Next, buffer)
	return k
}

// Any blocks until any key is pressed.
func (k *Kap) Any() *Kap {
	if k.state == Done {
		return k
	}

	var seen []keys.Keycode
	err := k.edges.Run(k.ctx, func(_ time.Time, pressed []keys.Keycode) bool {
		seen = pressed
		return pressed != nil
	})
	if err != nil {
		k.interrupted("any", err)
		return k
	}

	k.resolve("any", Next, Record{seen})
	return k
}

// Within waits up to timeout for one key-down. A matching press resolves
// Next; a wrong key or no key at all resolves Fail.
func (k *Kap) Within(timeout time.Duration, specs ...trigger.Spec) *Kap {
	return k.WithinRepeat(timeout, 1, false, specs...)
}

// WithinRepeat collects matching key-downs until maxRepeat of them were
// seen or the deadline passes. maxRepeat <= 0 means no cap.
//
// With debounce the deadline restarts after every accepted press;
// otherwise it is fixed from the call. A non-matching press fails at once
// and is recorded after whatever was buffered. At the deadline a non-empty
// buffer resolves Next and an empty one Fail. The deadline is checked
// before a pending press on the same tick.
func (k *Kap) WithinRepeat(timeout time.Duration, maxRepeat int, debounce bool, specs ...trigger.Spec) *Kap {
	if k.state == Done {
		return k
	}

	start := k.clock.Now()
	var buffer Record
	mismatch := false

	err := k.edges.Run(k.ctx, func(now time.Time, pressed []keys.Keycode) bool {
		if now.Sub(start) >= timeout {
			return true
		}
		if pressed == nil {
			return false
		}

		buffer = append(buffer, pressed)
		if !trigger.MatchAny(specs, pressed) {
			mismatch = true
			return true
		}
		if debounce {
			start = now
		}
		return maxRepeat > 0 && len(buffer) >= maxRepeat
	})
	if err != nil {
		k.interrupted("within", err)
		return k
	}

	if mismatch || len(buffer) == 0 {
		k.resolve("within", Fail, buffer)
		return k
	}
	k.resolve("within", Next, buffer)
	return k
}

// After sleeps for timeout, then behaves like Until.
func (k *Kap) After(timeout time.Duration, specs ...trigger.Spec) *Kap {
	return k.AfterRepeat(timeout, 1, specs...)
}

// AfterRepeat sleeps for timeout, then behaves like UntilRepeat.
func (k *Kap) AfterRepeat(timeout time.Duration, repeat int, specs ...trigger.Spec) *Kap {
	return k.Sleep(timeout).UntilRepeat(repeat, specs...)
}

// Sleep suspends the chain for d. State and record are left unchanged, so
// a Fail survives a Sleep; chains that want a fresh Next after a pause must
// follow it with a wait.
func (k *Kap) Sleep(d time.Duration) *Kap {
	if k.state == Done {
		return k
	}
	if err := k.clock.Sleep(k.ctx, d); err != nil {
		k.interrupted("sleep", err)
	}
	return k
}

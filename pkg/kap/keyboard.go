package kap

import (
	"context"
	"time"

	"kap/pkg/keys"
)

// KeyStateSource reports the keys held down right now. It must not block.
type KeyStateSource interface {
	PressedKeys() []keys.Keycode
}

// KeyDownNotifier calls handler on every key-down edge, possibly from
// another goroutine. The returned func releases the subscription.
type KeyDownNotifier interface {
	OnKeyDown(handler func()) (unsubscribe func())
}

// Keyboard is the input capability an engine polls.
type Keyboard interface {
	KeyStateSource
	KeyDownNotifier
}

// Clock supplies monotonic time, suspension and periodic ticks.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done, whichever comes first.
	Sleep(ctx context.Context, d time.Duration) error
	NewTicker(d time.Duration) Ticker
}

// Ticker delivers the tick time on C.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// SystemClock is the Clock backed by package time.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (SystemClock) NewTicker(d time.Duration) Ticker {
	return systemTicker{time.NewTicker(d)}
}

type systemTicker struct {
	t *time.Ticker
}

func (s systemTicker) C() <-chan time.Time { return s.t.C }
func (s systemTicker) Stop()               { s.t.Stop() }

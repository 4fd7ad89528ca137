package kap

import (
	"context"
	"sync/atomic"
	"time"

	"kap/pkg/keys"
)

// EdgeTest inspects one tick. pressed is nil unless a new key-down edge
// was seen since the previous tick. Returning true ends the poll loop.
type EdgeTest func(now time.Time, pressed []keys.Keycode) bool

// EdgeDetector turns a pressed-keys source plus raw key-down notifications
// into at most one press event per tick, so a held key is seen once.
type EdgeDetector struct {
	kb    Keyboard
	clock Clock
	tick  time.Duration

	// edge is the only state written from the notifier's goroutine.
	edge atomic.Bool
}

// NewEdgeDetector creates a detector polling kb every tick.
func NewEdgeDetector(kb Keyboard, clock Clock, tick time.Duration) *EdgeDetector {
	if clock == nil {
		clock = SystemClock{}
	}
	if tick <= 0 {
		tick = DefaultTick
	}
	return &EdgeDetector{kb: kb, clock: clock, tick: tick}
}

// Run polls until test returns true or ctx is done. Only key-downs that
// happen after Run is entered count. The notifier subscription is released
// on every exit path.
func (d *EdgeDetector) Run(ctx context.Context, test EdgeTest) error {
	d.edge.Store(false)
	unsubscribe := d.kb.OnKeyDown(func() {
		d.edge.Store(true)
	})
	defer unsubscribe()

	ticker := d.clock.NewTicker(d.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C():
			var pressed []keys.Keycode
			// Swap consumes the edge; a key-down racing with this tick
			// stays pending for the next one.
			if d.edge.Swap(false) {
				pressed = d.kb.PressedKeys()
				if len(pressed) == 0 {
					pressed = nil
				}
			}
			if test(now, pressed) {
				return nil
			}
		}
	}
}

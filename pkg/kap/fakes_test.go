package kap

import (
	"context"
	"sync"
	"testing"
	"time"

	"kap/pkg/keys"
)

// fakeKeyboard is a Keyboard driven by the test.
type fakeKeyboard struct {
	mu         sync.Mutex
	pressed    []keys.Keycode
	handlers   map[int]func()
	nextID     int
	subscribed chan struct{}
	reads      int
}

func newFakeKeyboard() *fakeKeyboard {
	return &fakeKeyboard{
		handlers:   make(map[int]func()),
		subscribed: make(chan struct{}, 16),
	}
}

func (f *fakeKeyboard) PressedKeys() []keys.Keycode {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	return append([]keys.Keycode(nil), f.pressed...)
}

func (f *fakeKeyboard) OnKeyDown(handler func()) func() {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.handlers[id] = handler
	f.mu.Unlock()

	f.subscribed <- struct{}{}
	return func() {
		f.mu.Lock()
		delete(f.handlers, id)
		f.mu.Unlock()
	}
}

// press replaces the held set and fires a key-down notification.
func (f *fakeKeyboard) press(ks ...keys.Keycode) {
	f.mu.Lock()
	f.pressed = append([]keys.Keycode(nil), ks...)
	handlers := make([]func(), 0, len(f.handlers))
	for _, h := range f.handlers {
		handlers = append(handlers, h)
	}
	f.mu.Unlock()

	for _, h := range handlers {
		h()
	}
}

func (f *fakeKeyboard) subscriptions() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.handlers)
}

// manualClock hands out a ticker whose ticks are sent by the test.
type manualClock struct {
	mu    sync.Mutex
	now   time.Time
	ticks chan time.Time
	slept []time.Duration
}

func newManualClock() *manualClock {
	return &manualClock{
		now:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ticks: make(chan time.Time),
	}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Sleep(ctx context.Context, d time.Duration) error {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.slept = append(c.slept, d)
	c.mu.Unlock()
	return ctx.Err()
}

func (c *manualClock) NewTicker(time.Duration) Ticker {
	return manualTicker{c.ticks}
}

type manualTicker struct {
	c chan time.Time
}

func (m manualTicker) C() <-chan time.Time { return m.c }
func (m manualTicker) Stop()               {}

// harness runs one blocking engine call on a goroutine and feeds it ticks.
type harness struct {
	t        *testing.T
	kb       *fakeKeyboard
	clk      *manualClock
	base     time.Time
	finished chan struct{}
	result   *Kap
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	clk := newManualClock()
	return &harness{
		t:    t,
		kb:   newFakeKeyboard(),
		clk:  clk,
		base: clk.Now(),
	}
}

func (h *harness) engine(opts ...Option) *Kap {
	return New(h.kb, append([]Option{WithClock(h.clk)}, opts...)...)
}

// start runs op in the background and waits for its key-down subscription.
func (h *harness) start(op func() *Kap) {
	h.t.Helper()
	h.finished = make(chan struct{})
	go func() {
		h.result = op()
		close(h.finished)
	}()
	h.waitSubscribed()
}

func (h *harness) waitSubscribed() {
	h.t.Helper()
	select {
	case <-h.kb.subscribed:
	case <-time.After(2 * time.Second):
		h.t.Fatal("Timed out waiting for key-down subscription")
	}
}

// tick delivers one tick stamped base+at. It reports false once the
// operation has returned and no longer reads ticks.
func (h *harness) tick(at time.Duration) bool {
	h.t.Helper()
	select {
	case h.clk.ticks <- h.base.Add(at):
		return true
	case <-h.finished:
		return false
	case <-time.After(2 * time.Second):
		h.t.Fatal("Timed out delivering tick")
		return false
	}
}

// press delivers a key-down that is observed at time base+at. The tick
// before the press carries the same stamp, so a press racing with it is
// still seen at the intended time.
func (h *harness) press(at time.Duration, ks ...keys.Keycode) {
	h.t.Helper()
	if !h.tick(at) {
		h.t.Fatalf("Operation finished before press %v at %v", ks, at)
	}
	h.kb.press(ks...)
	h.tick(at)
}

// pending reports whether the operation is still polling.
func (h *harness) pending(at time.Duration) bool {
	h.t.Helper()
	return h.tick(at)
}

func (h *harness) wait() *Kap {
	h.t.Helper()
	select {
	case <-h.finished:
		return h.result
	case <-time.After(2 * time.Second):
		h.t.Fatal("Timed out waiting for operation to return")
		return nil
	}
}

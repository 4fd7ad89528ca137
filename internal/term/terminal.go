// Package term provides a keyboard source and a console backed by the
// controlling terminal. Terminals report key presses but not releases, so
// a key counts as held for a short window after its last event.
package term

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"kap/pkg/keys"
)

// DefaultReleaseAfter is how long a key stays held after its last event.
// Terminal auto-repeat fires well inside this window.
const DefaultReleaseAfter = 150 * time.Millisecond

// Terminal implements kap.Keyboard over a tcell screen and doubles as a
// line console for status output.
type Terminal struct {
	screen tcell.Screen
	mu     sync.Mutex

	held         []keys.Keycode
	lastEvent    time.Time
	releaseAfter time.Duration
	now          func() time.Time

	handlers    map[int]func()
	nextID      int
	onInterrupt func()

	lines []string
	done  chan struct{}
}

// Option configures a Terminal.
type Option func(*Terminal)

// WithReleaseAfter sets how long a key stays held after its last event.
func WithReleaseAfter(d time.Duration) Option {
	return func(t *Terminal) {
		if d > 0 {
			t.releaseAfter = d
		}
	}
}

// NewTerminal creates a terminal on the process's tty.
func NewTerminal(opts ...Option) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewWithScreen(screen, opts...), nil
}

// NewWithScreen wraps an existing screen, e.g. a tcell simulation screen.
func NewWithScreen(screen tcell.Screen, opts ...Option) *Terminal {
	t := &Terminal{
		screen:       screen,
		releaseAfter: DefaultReleaseAfter,
		now:          time.Now,
		handlers:     make(map[int]func()),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Init takes over the terminal.
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Init()
}

// Run reads terminal events until ctx is done or the screen is shut down.
func (t *Terminal) Run(ctx context.Context) {
	go func() {
		select {
		case <-ctx.Done():
			t.Shutdown()
		case <-t.done:
		}
	}()

	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		switch e := ev.(type) {
		case *tcell.EventKey:
			t.handleKey(e)
		case *tcell.EventResize:
			t.mu.Lock()
			t.render()
			t.mu.Unlock()
		}
	}
}

// Shutdown restores the terminal. Safe to call more than once.
func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	select {
	case <-t.done:
		return
	default:
	}
	close(t.done)
	t.screen.Fini()
}

// OnInterrupt sets the handler run when Ctrl+C is pressed.
func (t *Terminal) OnInterrupt(handler func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onInterrupt = handler
}

// PressedKeys returns the keys of the last event while it is still held.
func (t *Terminal) PressedKeys() []keys.Keycode {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.held == nil || t.now().Sub(t.lastEvent) > t.releaseAfter {
		return nil
	}
	return append([]keys.Keycode(nil), t.held...)
}

// OnKeyDown subscribes handler to key-down edges.
func (t *Terminal) OnKeyDown(handler func()) func() {
	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.handlers[id] = handler
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.handlers, id)
			t.mu.Unlock()
		})
	}
}

func (t *Terminal) handleKey(ev *tcell.EventKey) {
	pressed := convertKey(ev)
	interrupt := sameKeys(pressed, interruptKeys)

	t.mu.Lock()
	if pressed == nil {
		t.mu.Unlock()
		return
	}

	now := t.now()
	repeat := t.held != nil && now.Sub(t.lastEvent) <= t.releaseAfter && sameKeys(t.held, pressed)
	t.held = pressed
	t.lastEvent = now

	var handlers []func()
	if !repeat {
		handlers = make([]func(), 0, len(t.handlers))
		for _, h := range t.handlers {
			handlers = append(handlers, h)
		}
	}
	onInterrupt := t.onInterrupt
	t.mu.Unlock()

	for _, h := range handlers {
		h()
	}
	if interrupt && onInterrupt != nil {
		onInterrupt()
	}
}

var interruptKeys = []keys.Keycode{keys.LControl, keys.C}

func sameKeys(a, b []keys.Keycode) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Println appends a line to the console.
func (t *Terminal) Println(line string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.lines = append(t.lines, strings.Split(line, "\n")...)
	t.render()
}

// Clear empties the console.
func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.lines = nil
	t.render()
}

// render draws the newest lines that fit. Callers hold t.mu.
func (t *Terminal) render() {
	width, height := t.screen.Size()
	t.screen.Clear()

	lines := t.lines
	if height > 0 && len(lines) > height {
		lines = lines[len(lines)-height:]
	}
	for y, line := range lines {
		x := 0
		for _, r := range line {
			if x >= width {
				break
			}
			t.screen.SetContent(x, y, r, nil, tcell.StyleDefault)
			x++
		}
	}
	t.screen.Show()
}

// Package hotkey provides a system-wide keyboard source: the set of keys
// currently held plus key-down notifications, fed by platform hooks.
package hotkey

import (
	"fmt"
	"log"
	"sync"

	"kap/pkg/keys"
	"kap/pkg/trigger"
)

// Manager tracks held keys reported by the OS hooks, fans key-down edges
// out to subscribers and fires registered hotkeys.
type Manager struct {
	mu       sync.RWMutex
	hotkeys  []*registeredHotkey
	pressed  []keys.Keycode // held keys, oldest press first
	handlers map[int]func()
	nextID   int

	device string // evdev path, linux only
}

type registeredHotkey struct {
	spec     trigger.Spec
	original string
	callback func()
}

// NewManager creates a new hotkey manager
func NewManager() *Manager {
	return &Manager{
		handlers: make(map[int]func()),
	}
}

// Register registers a hotkey string (e.g. "Ctrl+Alt+1", "@FunctionKey") and a callback.
func (m *Manager) Register(hotkeyStr string, callback func()) (int, error) {
	spec, err := trigger.Parse(hotkeyStr)
	if err != nil {
		return 0, fmt.Errorf("register hotkey: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.hotkeys = append(m.hotkeys, &registeredHotkey{
		spec:     spec,
		original: hotkeyStr,
		callback: callback,
	})

	return len(m.hotkeys) - 1, nil
}

// Clear removes all registered hotkeys
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hotkeys = nil
}

// PressedKeys returns the keys currently held, oldest press first.
func (m *Manager) PressedKeys() []keys.Keycode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]keys.Keycode(nil), m.pressed...)
}

// OnKeyDown subscribes handler to key-down edges. Handlers run on the hook
// goroutine and must return quickly.
func (m *Manager) OnKeyDown(handler func()) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.handlers[id] = handler
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.handlers, id)
			m.mu.Unlock()
		})
	}
}

// UpdateState records a key transition from a platform hook. A key-down for
// a key that is already held is an auto-repeat and is not reported as an edge.
func (m *Manager) UpdateState(key keys.Keycode, isDown bool) {
	if key == keys.KeyNone {
		return
	}

	m.mu.Lock()
	idx := -1
	for i, k := range m.pressed {
		if k == key {
			idx = i
			break
		}
	}

	if !isDown {
		if idx >= 0 {
			m.pressed = append(m.pressed[:idx], m.pressed[idx+1:]...)
		}
		m.mu.Unlock()
		return
	}
	if idx >= 0 {
		m.mu.Unlock()
		return
	}

	m.pressed = append(m.pressed, key)
	handlers := make([]func(), 0, len(m.handlers))
	for _, h := range m.handlers {
		handlers = append(handlers, h)
	}
	m.mu.Unlock()

	for _, h := range handlers {
		h()
	}
	m.checkMatches()
}

// SetDevice selects the evdev device read on Linux, e.g. /dev/input/event3.
// An empty path autodetects the first keyboard. Other platforms ignore it.
func (m *Manager) SetDevice(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.device = path
}

// Reset forgets every held key, e.g. after the hook lost focus.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pressed = nil
}

func (m *Manager) checkMatches() {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, hk := range m.hotkeys {
		if hk.spec.Match(m.pressed) {
			log.Printf("Hotkey triggered: %s", hk.original)
			go hk.callback()
		}
	}
}

// Start initiates the platform-specific global hooks.
// This is implemented in platform-specific files (hotkey_windows.go, hotkey_darwin.go, hotkey_linux.go).
func (m *Manager) Start() error {
	return m.startPlatform()
}

// Stop removes the platform hooks and forgets held keys.
func (m *Manager) Stop() error {
	err := m.stopPlatform()
	m.Reset()
	return err
}

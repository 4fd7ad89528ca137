package main

import (
	"sync"
	"testing"
	"time"

	"kap/pkg/keys"
)

// testSource is a keyboard the test presses keys on and a printer that
// records what it was given.
type testSource struct {
	mu         sync.Mutex
	pressed    []keys.Keycode
	handlers   map[int]func()
	nextID     int
	subscribed chan struct{}

	lines  []string
	clears int
}

func newTestSource() *testSource {
	return &testSource{
		handlers:   make(map[int]func()),
		subscribed: make(chan struct{}, 16),
	}
}

func (s *testSource) PressedKeys() []keys.Keycode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]keys.Keycode(nil), s.pressed...)
}

func (s *testSource) OnKeyDown(handler func()) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.handlers[id] = handler
	s.mu.Unlock()

	s.subscribed <- struct{}{}
	return func() {
		s.mu.Lock()
		delete(s.handlers, id)
		s.mu.Unlock()
	}
}

// waitSubscribed blocks until a wait step subscribes.
func (s *testSource) waitSubscribed(t *testing.T) {
	t.Helper()
	select {
	case <-s.subscribed:
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for a wait step to subscribe")
	}
}

// press waits for the next subscription, then presses ks.
func (s *testSource) press(t *testing.T, ks ...keys.Keycode) {
	t.Helper()
	s.waitSubscribed(t)

	s.mu.Lock()
	s.pressed = append([]keys.Keycode(nil), ks...)
	handlers := make([]func(), 0, len(s.handlers))
	for _, h := range s.handlers {
		handlers = append(handlers, h)
	}
	s.mu.Unlock()

	for _, h := range handlers {
		h()
	}
}

func (s *testSource) Println(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, line)
}

func (s *testSource) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clears++
}

func (s *testSource) output() ([]string, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...), s.clears
}

// waitForLine polls until line was printed.
func (s *testSource) waitForLine(t *testing.T, line string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		lines, _ := s.output()
		for _, l := range lines {
			if l == line {
				return
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	lines, _ := s.output()
	t.Fatalf("Expected line %q, got %q", line, lines)
}
